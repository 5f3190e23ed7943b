// Package steps builds and executes the install plan: the ordered,
// failure-sensitive sequence from partitioning through chroot
// configuration to finalize. Each step is a named function over a shared
// Env; the executor runs them in order, stops at the first failure and
// tears partial state back down.
package steps

import (
	"context"
	"io"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/filesystem"
	"github.com/archup/archup/pkg/ui"
)

// DefaultTarget is where the new system is assembled.
const DefaultTarget = "/mnt"

// Secrets holds credentials collected up front. They live only in
// memory and are passed to tools on stdin.
type Secrets struct {
	LuksPassphrase string
	UserPassword   string
}

// Facts are values discovered while the plan runs and consumed by later
// steps.
type Facts struct {
	ESPPath    string // partition 1 device node
	LuksPath   string // partition 2 device node
	LuksUUID   string // UUID of the LUKS header, for the kernel cmdline
	MapperPath string // /dev/mapper/<name>
}

// Env is the shared context all steps operate on.
type Env struct {
	Profile *config.Profile
	Runner  cmdexec.Runner
	Chroot  cmdexec.Runner
	FS      filesystem.FS
	Target  string

	In        io.Reader
	Out       io.Writer
	Format    ui.Format
	Passwords ui.PasswordReader

	AssumeYes  bool
	KeepMounts bool
	DryRun     bool
	LogPath    string

	Secrets Secrets
	Facts   Facts
}

// Step is one named unit of the install plan.
type Step struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// targetPath joins a path inside the mounted target.
func (e *Env) targetPath(rel string) string {
	return e.Target + rel
}

// readTargetFile reads a file from the mounted target, falling back to
// the given stock content during dry runs, where nothing is mounted and
// the preview still needs realistic input.
func (e *Env) readTargetFile(rel, stock string) (string, error) {
	raw, err := e.FS.ReadFile(e.targetPath(rel))
	if err != nil {
		if e.DryRun {
			return stock, nil
		}
		return "", err
	}
	return string(raw), nil
}
