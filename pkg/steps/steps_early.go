package steps

import (
	"context"
	"os"

	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/state"
	"github.com/archup/archup/pkg/system"
	"github.com/archup/archup/pkg/ui"
)

// stepPreflight fails fast on anything that would abort the install
// halfway: missing root, BIOS boot, absent tools, missing device, no
// network. Skipped in dry runs, which must work on any machine.
func stepPreflight(ctx context.Context, env *Env) error {
	if env.DryRun {
		return nil
	}
	if err := system.CheckRoot(); err != nil {
		return err
	}
	if env.Profile.Disk.FirmwareCheck {
		if err := system.CheckUEFI(); err != nil {
			return err
		}
	}
	if err := system.CheckTools(); err != nil {
		return err
	}
	if err := system.CheckDevice(env.Profile.Disk.Device); err != nil {
		return err
	}
	return system.CheckNetwork(ctx, env.Runner)
}

// stepConfirm shows the resolved profile and demands the literal YES
// before anything destructive happens.
func stepConfirm(_ context.Context, env *Env) error {
	if env.DryRun {
		return nil
	}
	ui.PrintProfileSummary(env.Out, env.Format, env.Profile)
	return ui.ConfirmWipe(env.In, env.Out, env.Profile.Disk.Device, env.AssumeYes)
}

// collectSecret resolves one secret: from the environment variable the
// profile names, or by prompting when no override is configured.
func collectSecret(env *Env, envName, key, prompt string) (string, error) {
	if envName == "" {
		return ui.CollectPassphrase(env.Passwords, prompt)
	}
	value := os.Getenv(envName)
	if value == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is set but $%s is empty", key, envName)
	}
	return value, nil
}

// stepCollectSecrets gathers the LUKS passphrase and the user password
// up front, so a typo aborts before the disk is touched. Environment
// variables named by luks.passphrase_env and system.password_env feed
// unattended runs; with both set no prompt is issued.
func stepCollectSecrets(_ context.Context, env *Env) error {
	if env.DryRun {
		env.Secrets = Secrets{LuksPassphrase: "dry-run", UserPassword: "dry-run"}
		return nil
	}

	pass, err := collectSecret(env, env.Profile.LUKS.PassphraseEnv, "luks.passphrase_env", "LUKS passphrase")
	if err != nil {
		return err
	}
	env.Secrets.LuksPassphrase = pass

	password, err := collectSecret(env, env.Profile.System.PasswordEnv, "system.password_env",
		"password for "+env.Profile.System.Username)
	if err != nil {
		return err
	}
	env.Secrets.UserPassword = password
	return nil
}

// stepTeardownLeftovers makes reruns safe: anything a previous attempt
// left mounted, swapped or mapped is removed before partitioning.
func stepTeardownLeftovers(ctx context.Context, env *Env) error {
	if env.DryRun {
		return nil
	}
	left, err := state.Probe(ctx, env.Runner, env.FS, env.Target, env.Profile.LUKS.Mapper)
	if err != nil {
		return err
	}
	if left.Empty() {
		return nil
	}
	return state.Teardown(ctx, env.Runner, env.Target, env.Profile.LUKS.Mapper, left)
}
