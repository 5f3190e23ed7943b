package state_test

import (
	"context"
	"testing"

	"github.com/archup/archup/pkg/cmdexec/cmdexectest"
	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/filesystem"
	"github.com/archup/archup/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMounts = `proc /proc proc rw,nosuid,nodev,noexec 0 0
/dev/mapper/cryptroot /mnt btrfs rw,noatime,subvol=/@ 0 0
/dev/mapper/cryptroot /mnt/home btrfs rw,noatime,subvol=/@home 0 0
/dev/vda1 /mnt/boot vfat rw,relatime 0 0
/dev/mapper/cryptroot /mnt/var/log btrfs rw,noatime,subvol=/@var_log 0 0
tmpfs /run tmpfs rw,nosuid,nodev 0 0
`

func TestParseMounts(t *testing.T) {
	mounts := state.ParseMounts(sampleMounts)
	require.Len(t, mounts, 6)
	assert.Equal(t, "/dev/mapper/cryptroot", mounts[1].Device)
	assert.Equal(t, "/mnt", mounts[1].Dir)
	assert.Equal(t, "btrfs", mounts[1].FSType)
}

func TestParseMounts_SkipsMalformedAndDecodesEscapes(t *testing.T) {
	mounts := state.ParseMounts("broken\n/dev/vda1 /mnt/with\\040space vfat rw 0 0\n")
	require.Len(t, mounts, 1)
	assert.Equal(t, "/mnt/with space", mounts[0].Dir)
}

func TestMountsBelow_DeepestFirst(t *testing.T) {
	below := state.MountsBelow(state.ParseMounts(sampleMounts), "/mnt")

	require.Len(t, below, 4)
	// /mnt/var/log has the most path segments, /mnt the fewest.
	assert.Equal(t, "/mnt/var/log", below[0].Dir)
	assert.Equal(t, "/mnt", below[3].Dir)
}

func TestMountsBelow_DoesNotMatchPrefixSiblings(t *testing.T) {
	mounts := state.ParseMounts("/dev/vda1 /mnt2 vfat rw 0 0\n/dev/vda2 /mnt ext4 rw 0 0\n")
	below := state.MountsBelow(mounts, "/mnt")
	require.Len(t, below, 1)
	assert.Equal(t, "/mnt", below[0].Dir)
}

func writeProc(t *testing.T, fsys filesystem.FS, mounts, swaps string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll("/proc/self", 0755))
	require.NoError(t, fsys.WriteFile("/proc/self/mounts", []byte(mounts), 0444))
	require.NoError(t, fsys.WriteFile("/proc/swaps", []byte(swaps), 0444))
}

func TestProbe_FindsLeftovers(t *testing.T) {
	fsys := filesystem.NewMemory()
	writeProc(t, fsys, sampleMounts,
		"Filename\tType\tSize\tUsed\tPriority\n/dev/zram0 partition 8388604 0 100\n")

	r := cmdexectest.NewRecorder() // cryptsetup status succeeds: mapping active

	left, err := state.Probe(context.Background(), r, fsys, "/mnt", "cryptroot")
	require.NoError(t, err)

	assert.False(t, left.Empty())
	assert.Len(t, left.Mounts, 4)
	assert.True(t, left.MapperActive)
	assert.True(t, left.SwapActive)
}

func TestProbe_CleanSystem(t *testing.T) {
	fsys := filesystem.NewMemory()
	writeProc(t, fsys, "proc /proc proc rw 0 0\n", "Filename\tType\tSize\tUsed\tPriority\n")

	r := cmdexectest.NewRecorder()
	r.RespondTo("cryptsetup status", cmdexectest.Response{
		ExitCode: 4,
		Err:      errors.New(errors.ErrCmdRun, "inactive"),
	})

	left, err := state.Probe(context.Background(), r, fsys, "/mnt", "cryptroot")
	require.NoError(t, err)
	assert.True(t, left.Empty())
}

func TestTeardown_OrderAndCommands(t *testing.T) {
	r := cmdexectest.NewRecorder()
	left := state.Leftovers{
		Mounts:       []state.Mount{{Dir: "/mnt/home"}, {Dir: "/mnt"}},
		MapperActive: true,
		SwapActive:   true,
	}

	require.NoError(t, state.Teardown(context.Background(), r, "/mnt", "cryptroot", left))

	lines := r.CommandLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "swapoff -a", lines[0])
	assert.Equal(t, "umount -R /mnt", lines[1])
	assert.Equal(t, "cryptsetup close cryptroot", lines[2])
}

func TestTeardown_CollectsAllFailures(t *testing.T) {
	r := cmdexectest.NewRecorder()
	r.RespondTo("umount", cmdexectest.Response{
		ExitCode: 32,
		Err:      errors.New(errors.ErrCmdRun, "target is busy"),
	})
	r.RespondTo("cryptsetup close", cmdexectest.Response{
		ExitCode: 5,
		Err:      errors.New(errors.ErrCmdRun, "device still in use"),
	})

	left := state.Leftovers{
		Mounts:       []state.Mount{{Dir: "/mnt"}},
		MapperActive: true,
	}

	err := state.Teardown(context.Background(), r, "/mnt", "cryptroot", left)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTeardown))
	assert.Contains(t, err.Error(), "busy")
	assert.Contains(t, err.Error(), "in use")
}

func TestTeardown_NothingToDo(t *testing.T) {
	r := cmdexectest.NewRecorder()
	require.NoError(t, state.Teardown(context.Background(), r, "/mnt", "cryptroot", state.Leftovers{}))
	assert.Empty(t, r.Calls())
}
