package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_VerbosityLevels(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	tests := []struct {
		name      string
		verbosity int
		expected  zerolog.Level
	}{
		{name: "default_warn", verbosity: 0, expected: zerolog.WarnLevel},
		{name: "v_info", verbosity: 1, expected: zerolog.InfoLevel},
		{name: "vv_debug", verbosity: 2, expected: zerolog.DebugLevel},
		{name: "vvv_trace", verbosity: 3, expected: zerolog.TraceLevel},
		{name: "beyond_trace", verbosity: 9, expected: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogger(tt.verbosity)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestLogFilePath_UsesStateHome(t *testing.T) {
	// LogFilePath reads xdg.StateHome, which is resolved at package init.
	// We only assert on the stable suffix here.
	path := LogFilePath()
	assert.Equal(t, filepath.Join("archup", "archup.log"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}

func TestGetLogger_AddsComponent(t *testing.T) {
	logger := GetLogger("steps")
	require.NotNil(t, logger)
}
