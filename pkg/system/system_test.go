package system_test

import (
	"context"
	"testing"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/cmdexec/cmdexectest"
	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionPath(t *testing.T) {
	tests := []struct {
		disk     string
		n        int
		expected string
	}{
		{disk: "/dev/sda", n: 1, expected: "/dev/sda1"},
		{disk: "/dev/sda", n: 2, expected: "/dev/sda2"},
		{disk: "/dev/vdb", n: 2, expected: "/dev/vdb2"},
		{disk: "/dev/nvme0n1", n: 1, expected: "/dev/nvme0n1p1"},
		{disk: "/dev/nvme0n1", n: 2, expected: "/dev/nvme0n1p2"},
		{disk: "/dev/mmcblk0", n: 1, expected: "/dev/mmcblk0p1"},
		{disk: "/dev/loop7", n: 1, expected: "/dev/loop7p1"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, system.PartitionPath(tt.disk, tt.n))
		})
	}
}

func TestZapDisk_RunsSgdiskThenWipefs(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.ZapDisk(context.Background(), r, "/dev/vda"))

	lines := r.CommandLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "sgdisk --zap-all /dev/vda", lines[0])
	assert.Equal(t, "wipefs --all /dev/vda", lines[1])
}

func TestCreatePartitions_Layout(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.CreatePartitions(context.Background(), r, "/dev/vda", 1024))

	lines := r.CommandLines()
	require.Len(t, lines, 1)
	assert.Equal(t,
		"sgdisk --new 1:0:+1024M --typecode 1:ef00 --change-name 1:EFI --new 2:0:0 --typecode 2:8309 --change-name 2:cryptroot /dev/vda",
		lines[0])
}

func TestLuksFormat_PassphraseOnStdinOnly(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.LuksFormat(context.Background(), r, "/dev/vda2", "hunter2", 2000))

	calls := r.Calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].String(), "hunter2")
	assert.Equal(t, "hunter2", calls[0].Stdin)
	assert.True(t, calls[0].Sensitive)
	assert.Contains(t, calls[0].String(), "--type luks2")
	assert.Contains(t, calls[0].String(), "--iter-time 2000")
}

func TestLuksOpen_WrongPassphrase(t *testing.T) {
	r := cmdexectest.NewRecorder()
	r.RespondTo("cryptsetup open", cmdexectest.Response{
		ExitCode: 2,
		Err:      errors.New(errors.ErrCmdRun, "cryptsetup open exited with status 2"),
	})

	err := system.LuksOpen(context.Background(), r, "/dev/vda2", "cryptroot", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLuksOpen))
}

func TestLuksMappingActive(t *testing.T) {
	r := cmdexectest.NewRecorder()
	assert.True(t, system.LuksMappingActive(context.Background(), r, "cryptroot"))

	r.RespondTo("cryptsetup status", cmdexectest.Response{
		ExitCode: 4,
		Err:      errors.New(errors.ErrCmdRun, "inactive"),
	})
	assert.False(t, system.LuksMappingActive(context.Background(), r, "cryptroot"))
}

func TestMountSubvolume_CombinesOptions(t *testing.T) {
	r := cmdexectest.NewRecorder()
	err := system.MountSubvolume(context.Background(), r, "/dev/mapper/cryptroot", "/mnt/home", "@home",
		[]string{"noatime", "compress=zstd:1"})
	require.NoError(t, err)

	lines := r.CommandLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "mount -o noatime,compress=zstd:1,subvol=@home /dev/mapper/cryptroot /mnt/home", lines[0])
}

func TestMount_NoOptions(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.Mount(context.Background(), r, "/dev/vda1", "/mnt/boot"))
	assert.Equal(t, "mount /dev/vda1 /mnt/boot", r.CommandLines()[0])
}

func TestPacstrap_PackageList(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.Pacstrap(context.Background(), r, "/mnt", []string{"base", "linux"}))
	assert.Equal(t, "pacstrap -K /mnt base linux", r.CommandLines()[0])
}

func TestGenfstab_ReturnsOutput(t *testing.T) {
	r := cmdexectest.NewRecorder()
	fstab := "UUID=abc / btrfs rw,subvol=@ 0 0\n"
	r.RespondTo("genfstab", cmdexectest.Response{Output: fstab})

	out, err := system.Genfstab(context.Background(), r, "/mnt")
	require.NoError(t, err)
	assert.Equal(t, fstab, out)
}

func TestBlkidUUID(t *testing.T) {
	r := cmdexectest.NewRecorder()
	r.RespondTo("blkid", cmdexectest.Response{Output: "1b2c3d4e-aaaa-bbbb-cccc-123456789abc\n"})

	uuid, err := system.BlkidUUID(context.Background(), r, "/dev/vda2")
	require.NoError(t, err)
	assert.Equal(t, "1b2c3d4e-aaaa-bbbb-cccc-123456789abc", uuid)
}

func TestBlkidUUID_EmptyIsError(t *testing.T) {
	r := cmdexectest.NewRecorder()
	r.RespondTo("blkid", cmdexectest.Response{Output: "\n"})

	_, err := system.BlkidUUID(context.Background(), r, "/dev/vda2")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDeviceNotFound))
}

func TestSetPassword_SensitiveStdin(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.SetPassword(context.Background(), r, "alice", "s3cret"))

	calls := r.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"chpasswd"}, calls[0].Argv)
	assert.Equal(t, "alice:s3cret\n", calls[0].Stdin)
	assert.True(t, calls[0].Sensitive)
}

func TestEnableServices_EmptyIsNoop(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, system.EnableServices(context.Background(), r, nil))
	assert.Empty(t, r.Calls())
}

func TestChrootWrappers_ThroughChrootRunner(t *testing.T) {
	inner := cmdexec.NewDryRunner()
	chroot := cmdexec.NewChrootRunner(inner, "/mnt")

	require.NoError(t, system.GenerateLocales(context.Background(), chroot))
	require.NoError(t, system.SnapperCreateConfig(context.Background(), chroot))
	require.NoError(t, system.Mkinitcpio(context.Background(), chroot))

	calls := inner.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "arch-chroot /mnt locale-gen", calls[0].String())
	assert.Equal(t, "arch-chroot /mnt snapper --no-dbus -c root create-config /", calls[1].String())
	assert.Equal(t, "arch-chroot /mnt mkinitcpio -P", calls[2].String())
}
