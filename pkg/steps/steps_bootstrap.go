package steps

import (
	"context"

	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/system"
)

// stepMirrors rewrites the live ISO mirrorlist before pacstrap. Only in
// the plan when a mirror country is configured.
func stepMirrors(ctx context.Context, env *Env) error {
	return system.RefreshMirrors(ctx, env.Runner, env.Profile.Packages.MirrorCountry)
}

// stepBootstrap pacstraps the full package set into the target.
func stepBootstrap(ctx context.Context, env *Env) error {
	return system.Pacstrap(ctx, env.Runner, env.Target, env.Profile.AllPackages())
}

// stepFstab appends the generated fstab to the target. genfstab emits
// UUID-keyed lines for everything currently mounted under the target.
func stepFstab(ctx context.Context, env *Env) error {
	fstab, err := system.Genfstab(ctx, env.Runner, env.Target)
	if err != nil {
		return err
	}

	path := env.targetPath("/etc/fstab")
	existing, _ := env.FS.ReadFile(path)
	content := append(existing, []byte(fstab)...)
	if err := env.FS.WriteFile(path, content, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFstab, "failed to write fstab")
	}
	return nil
}
