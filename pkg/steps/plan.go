package steps

import (
	"github.com/archup/archup/pkg/config"
)

// BuildPlan assembles the ordered step list for a profile. Optional
// steps join the plan based on the profile toggles; order is fixed and
// later steps rely on the facts earlier ones record.
func BuildPlan(profile *config.Profile) []Step {
	plan := []Step{
		{Name: "Preflight checks", Run: stepPreflight},
		{Name: "Confirm target disk", Run: stepConfirm},
		{Name: "Collect credentials", Run: stepCollectSecrets},
		{Name: "Tear down leftovers from previous runs", Run: stepTeardownLeftovers},
	}

	if profile.Packages.MirrorCountry != "" {
		plan = append(plan, Step{Name: "Refresh mirrorlist", Run: stepMirrors})
	}

	plan = append(plan,
		Step{Name: "Partition disk", Run: stepPartition},
		Step{Name: "Encrypt root partition", Run: stepEncrypt},
		Step{Name: "Format filesystems", Run: stepFormat},
		Step{Name: "Create Btrfs subvolumes", Run: stepSubvolumes},
		Step{Name: "Mount target", Run: stepMount},
		Step{Name: "Install base system", Run: stepBootstrap},
		Step{Name: "Write fstab", Run: stepFstab},
		Step{Name: "Configure locale, time and hostname", Run: stepSystemConfig},
		Step{Name: "Create user accounts", Run: stepUsers},
		Step{Name: "Configure initramfs", Run: stepInitramfs},
	)

	switch profile.Boot.Loader {
	case config.LoaderGrub:
		plan = append(plan, Step{Name: "Install GRUB", Run: stepGrub})
	default:
		plan = append(plan, Step{Name: "Install systemd-boot", Run: stepSystemdBoot})
	}

	if profile.Zram.Enabled {
		plan = append(plan, Step{Name: "Configure zram swap", Run: stepZram})
	}
	if profile.Snapper.Enabled {
		plan = append(plan, Step{Name: "Configure snapshots", Run: stepSnapper})
	}

	plan = append(plan,
		Step{Name: "Enable services", Run: stepServices},
		Step{Name: "Finalize", Run: stepFinalize},
	)
	return plan
}

// PlanNames returns just the step names, for the plan command.
func PlanNames(plan []Step) []string {
	names := make([]string, len(plan))
	for i, step := range plan {
		names[i] = step.Name
	}
	return names
}
