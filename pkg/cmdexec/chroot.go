package cmdexec

import "context"

// ChrootRunner decorates a Runner so that every command executes inside
// the installed system via arch-chroot.
type ChrootRunner struct {
	inner  Runner
	target string
}

// NewChrootRunner wraps runner so commands run under arch-chroot target.
func NewChrootRunner(runner Runner, target string) *ChrootRunner {
	return &ChrootRunner{inner: runner, target: target}
}

// Run prefixes the argv with arch-chroot and delegates to the inner runner.
func (r *ChrootRunner) Run(ctx context.Context, cmd Cmd) (Result, error) {
	wrapped := cmd
	wrapped.Argv = append([]string{"arch-chroot", r.target}, cmd.Argv...)
	return r.inner.Run(ctx, wrapped)
}
