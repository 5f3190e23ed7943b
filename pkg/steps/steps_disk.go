package steps

import (
	"context"

	"github.com/archup/archup/pkg/system"
)

// dryRunUUID stands in for blkid output when nothing was formatted.
const dryRunUUID = "00000000-0000-0000-0000-000000000000"

// stepPartition writes the GPT layout and records the partition nodes.
func stepPartition(ctx context.Context, env *Env) error {
	disk := env.Profile.Disk.Device

	if err := system.ZapDisk(ctx, env.Runner, disk); err != nil {
		return err
	}
	if err := system.CreatePartitions(ctx, env.Runner, disk, env.Profile.Disk.EspSizeMiB); err != nil {
		return err
	}
	if err := system.SettlePartitions(ctx, env.Runner, disk); err != nil {
		return err
	}

	env.Facts.ESPPath = system.PartitionPath(disk, 1)
	env.Facts.LuksPath = system.PartitionPath(disk, 2)
	return nil
}

// stepEncrypt formats the LUKS2 container, opens it and records its UUID.
func stepEncrypt(ctx context.Context, env *Env) error {
	luks := env.Profile.LUKS

	if err := system.LuksFormat(ctx, env.Runner, env.Facts.LuksPath, env.Secrets.LuksPassphrase, luks.IterTimeMs); err != nil {
		return err
	}
	if err := system.LuksOpen(ctx, env.Runner, env.Facts.LuksPath, luks.Mapper, env.Secrets.LuksPassphrase); err != nil {
		return err
	}
	env.Facts.MapperPath = "/dev/mapper/" + luks.Mapper

	if env.DryRun {
		env.Facts.LuksUUID = dryRunUUID
		return nil
	}
	uuid, err := system.BlkidUUID(ctx, env.Runner, env.Facts.LuksPath)
	if err != nil {
		return err
	}
	env.Facts.LuksUUID = uuid
	return nil
}

// stepFormat creates the ESP and root filesystems.
func stepFormat(ctx context.Context, env *Env) error {
	if err := system.MkfsVfat(ctx, env.Runner, env.Facts.ESPPath); err != nil {
		return err
	}
	return system.MkfsBtrfs(ctx, env.Runner, env.Facts.MapperPath, env.Profile.Btrfs.Label)
}

// stepSubvolumes mounts the raw Btrfs filesystem once, creates every
// configured subvolume, then unmounts again.
func stepSubvolumes(ctx context.Context, env *Env) error {
	if err := system.Mount(ctx, env.Runner, env.Facts.MapperPath, env.Target); err != nil {
		return err
	}
	for _, sv := range env.Profile.Btrfs.Subvolumes {
		if err := system.CreateSubvolume(ctx, env.Runner, env.Target, sv.Name); err != nil {
			return err
		}
	}
	return system.UnmountRecursive(ctx, env.Runner, env.Target)
}

// stepMount assembles the final mount tree: root subvolume first, then
// the other subvolumes at their mountpoints, then the ESP on /boot.
func stepMount(ctx context.Context, env *Env) error {
	btrfs := env.Profile.Btrfs
	root := env.Profile.RootSubvolume()

	if err := system.MountSubvolume(ctx, env.Runner, env.Facts.MapperPath, env.Target, root.Name, btrfs.MountOptions); err != nil {
		return err
	}

	for _, sv := range btrfs.Subvolumes {
		if sv.Mountpoint == "/" {
			continue
		}
		dir := env.targetPath(sv.Mountpoint)
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := system.MountSubvolume(ctx, env.Runner, env.Facts.MapperPath, dir, sv.Name, btrfs.MountOptions); err != nil {
			return err
		}
	}

	bootDir := env.targetPath("/boot")
	if err := env.FS.MkdirAll(bootDir, 0755); err != nil {
		return err
	}
	return system.Mount(ctx, env.Runner, env.Facts.ESPPath, bootDir)
}
