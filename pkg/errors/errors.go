package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrAborted      ErrorCode = "ABORTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Preflight errors
	ErrNotRoot     ErrorCode = "NOT_ROOT"
	ErrNotUEFI     ErrorCode = "NOT_UEFI"
	ErrToolMissing ErrorCode = "TOOL_MISSING"
	ErrNoNetwork   ErrorCode = "NO_NETWORK"

	// Block device errors
	ErrDeviceNotFound ErrorCode = "DEVICE_NOT_FOUND"
	ErrDeviceBusy     ErrorCode = "DEVICE_BUSY"
	ErrPartition      ErrorCode = "PARTITION"

	// Encryption errors
	ErrLuksFormat ErrorCode = "LUKS_FORMAT"
	ErrLuksOpen   ErrorCode = "LUKS_OPEN"
	ErrLuksClose  ErrorCode = "LUKS_CLOSE"
	ErrKeyfile    ErrorCode = "KEYFILE"

	// Filesystem errors
	ErrMkfs      ErrorCode = "MKFS"
	ErrSubvolume ErrorCode = "SUBVOLUME"
	ErrMount     ErrorCode = "MOUNT"
	ErrUnmount   ErrorCode = "UNMOUNT"

	// Bootstrap and chroot errors
	ErrPacstrap   ErrorCode = "PACSTRAP"
	ErrFstab      ErrorCode = "FSTAB"
	ErrChroot     ErrorCode = "CHROOT"
	ErrBootloader ErrorCode = "BOOTLOADER"
	ErrInitramfs  ErrorCode = "INITRAMFS"

	// Command execution errors
	ErrCmdStart ErrorCode = "CMD_START"
	ErrCmdRun   ErrorCode = "CMD_RUN"

	// Generated file errors
	ErrFileRead   ErrorCode = "FILE_READ"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrFileRender ErrorCode = "FILE_RENDER"

	// Teardown errors
	ErrTeardown ErrorCode = "TEARDOWN"
)

// InstallError represents a structured error with code and details
type InstallError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *InstallError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *InstallError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *InstallError) Is(target error) bool {
	var targetErr *InstallError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new InstallError with the given code and message
func New(code ErrorCode, message string) *InstallError {
	return &InstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new InstallError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *InstallError {
	return &InstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an InstallError
func Wrap(err error, code ErrorCode, message string) *InstallError {
	if err == nil {
		return nil
	}
	return &InstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *InstallError {
	if err == nil {
		return nil
	}
	return &InstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *InstallError) WithDetail(key string, value interface{}) *InstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return installErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an InstallError
func GetErrorCode(err error) ErrorCode {
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return installErr.Code
	}
	return ErrUnknown
}
