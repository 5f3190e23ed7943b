package state

import (
	"context"
	"strings"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/filesystem"
	"github.com/archup/archup/pkg/logging"
	"github.com/archup/archup/pkg/system"
)

const procMounts = "/proc/self/mounts"
const procSwaps = "/proc/swaps"

// Leftovers describes partial state a previous run left behind.
type Leftovers struct {
	// Mounts under the target root, deepest first.
	Mounts []Mount

	// MapperActive reports an open LUKS mapping under the profile name.
	MapperActive bool

	// SwapActive reports any active swap device.
	SwapActive bool
}

// Empty reports whether there is nothing to tear down.
func (l Leftovers) Empty() bool {
	return len(l.Mounts) == 0 && !l.MapperActive && !l.SwapActive
}

// Probe inspects the live system for leftovers of a previous attempt.
func Probe(ctx context.Context, r cmdexec.Runner, fsys filesystem.FS, target, mapper string) (Leftovers, error) {
	var left Leftovers

	mountsRaw, err := fsys.ReadFile(procMounts)
	if err != nil {
		return left, errors.Wrap(err, errors.ErrTeardown, "failed to read mount table")
	}
	left.Mounts = MountsBelow(ParseMounts(string(mountsRaw)), target)

	left.MapperActive = system.LuksMappingActive(ctx, r, mapper)

	if swapsRaw, err := fsys.ReadFile(procSwaps); err == nil {
		// First line is the header.
		lines := strings.Split(strings.TrimSpace(string(swapsRaw)), "\n")
		left.SwapActive = len(lines) > 1
	}

	return left, nil
}

// Teardown removes the detected leftovers: swap off, recursive unmount,
// LUKS close. Each step is best-effort; all failures are collected so a
// half-stuck system reports everything at once.
func Teardown(ctx context.Context, r cmdexec.Runner, target string, mapper string, left Leftovers) error {
	logger := logging.GetLogger("state")
	var problems []string

	if left.SwapActive {
		if err := system.SwapoffAll(ctx, r); err != nil {
			logger.Warn().Err(err).Msg("swapoff failed")
			problems = append(problems, err.Error())
		}
	}

	if len(left.Mounts) > 0 {
		logger.Info().Int("mounts", len(left.Mounts)).Str("target", target).Msg("Unmounting leftovers")
		if err := system.UnmountRecursive(ctx, r, target); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if left.MapperActive {
		logger.Info().Str("mapper", mapper).Msg("Closing leftover LUKS mapping")
		if err := system.LuksClose(ctx, r, mapper); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.Newf(errors.ErrTeardown, "teardown incomplete: %s", strings.Join(problems, "; "))
	}
	return nil
}
