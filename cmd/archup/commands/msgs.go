package commands

// Message constants
const (
	// Command descriptions
	MsgRootShort = "A profile-driven Arch Linux installer"
	MsgRootLong  = `archup installs Arch Linux from a live ISO the same way every time:
GPT partitioning, LUKS2 full-disk encryption, Btrfs subvolumes, pacstrap
and bootloader setup, all driven by a single TOML profile instead of a
hand-edited shell script.

The install is an ordered plan of named steps. It stops at the first
failure, tears partial state back down, and is safe to rerun.`

	MsgInstallShort = "Run the full installation on the target disk"
	MsgInstallLong  = `Run the complete installation: partition and encrypt the disk, create
the Btrfs subvolume layout, install the base system and configure the
bootloader, users and services from the resolved profile.

This destroys all data on the configured disk. The resolved profile is
shown first and the literal answer YES is required before anything is
written.`
	MsgInstallExample = `  archup install                       # use /etc/archup.toml or ./archup.toml
  archup install -c laptop.toml        # use an explicit profile
  archup install --dry-run             # print the commands, touch nothing
  ARCHUP_DISK_DEVICE=/dev/nvme1n1 archup install`

	MsgPlanShort = "Show the install plan for a profile"
	MsgPlanLong  = `Show the ordered list of steps the installation would run for the
resolved profile. With --commands, also simulate the plan and print
every external command it would execute. Never touches the system and
never needs root.`
	MsgPlanExample = `  archup plan
  archup plan -c laptop.toml
  archup plan --commands`

	MsgTeardownShort = "Remove leftovers of a previous install attempt"
	MsgTeardownLong  = `Detect and remove partial state a failed or interrupted run left
behind: swap, mounts under the target root, and the open LUKS mapping.
Run this before retrying an install that died halfway.`
	MsgTeardownExample = `  archup teardown
  archup teardown --yes`

	MsgGenConfigShort = "Generate a profile file"
	MsgGenConfigLong  = `Output the default profile to stdout, or write it to a file with -w.
With --resolved, output the fully resolved profile instead: defaults
plus config files plus ARCHUP_* environment overrides.`
	MsgGenConfigExample = `  archup gen-config                    # defaults to stdout
  archup gen-config -w archup.toml     # write the defaults to a file
  archup gen-config --resolved         # show what install would use`

	MsgTopicsShort = "Display reference documentation topics"
	MsgTopicsLong  = `Display a list of reference topics (disk layout, encryption, snapshots,
profiles) or render a single topic to the terminal.`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN - no commands were executed, no data was written"
	MsgNothingToTear  = "Nothing to tear down."
	MsgTeardownDone   = "Teardown complete."
	MsgPlanHeading    = "Install plan for %s (%d steps):\n"
	MsgCommandHeading = "\nCommands the plan would run:\n"

	// Error messages
	MsgErrLoadProfile = "failed to load profile: %w"
	MsgErrInstall     = "installation failed: %w"
	MsgErrTeardown    = "teardown failed: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Profile file (default /etc/archup.toml, then ./archup.toml)"
	MsgFlagFormat     = "Output format: auto, term or text"
	MsgFlagDryRun     = "Print the commands the install would run without executing them"
	MsgFlagYes        = "Skip the YES confirmation prompt"
	MsgFlagKeepMounts = "Leave the target mounted after a successful install"
	MsgFlagWrite      = "Write the profile to a file instead of stdout"
	MsgFlagResolved   = "Output the resolved profile instead of the defaults"
)
