package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/archup/archup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatsCodeAndMessage(t *testing.T) {
	err := errors.New(errors.ErrLuksOpen, "cryptsetup open failed")
	assert.Equal(t, "[LUKS_OPEN] cryptsetup open failed", err.Error())
}

func TestWrap_PreservesWrappedError(t *testing.T) {
	inner := fmt.Errorf("exit status 2")
	err := errors.Wrap(inner, errors.ErrCmdRun, "sgdisk failed")

	assert.Equal(t, "[CMD_RUN] sgdisk failed: exit status 2", err.Error())
	assert.Equal(t, inner, stderrors.Unwrap(err))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	require.Nil(t, errors.Wrap(nil, errors.ErrCmdRun, "should vanish"))
	require.Nil(t, errors.Wrapf(nil, errors.ErrCmdRun, "should %s", "vanish"))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := errors.Newf(errors.ErrDeviceNotFound, "no such device %s", "/dev/sdz")
	target := errors.New(errors.ErrDeviceNotFound, "")

	assert.True(t, stderrors.Is(err, target))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrMount, "")))
}

func TestIsErrorCode_ThroughWrappingChain(t *testing.T) {
	err := errors.New(errors.ErrPacstrap, "pacstrap failed")
	wrapped := fmt.Errorf("step bootstrap: %w", err)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrPacstrap))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrFstab))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrPacstrap))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrMount, errors.GetErrorCode(errors.New(errors.ErrMount, "mount failed")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrPartition, "sgdisk failed").
		WithDetail("disk", "/dev/nvme0n1").
		WithDetail("exit", 2)

	assert.Equal(t, "/dev/nvme0n1", err.Details["disk"])
	assert.Equal(t, 2, err.Details["exit"])
}
