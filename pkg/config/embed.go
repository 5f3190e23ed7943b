package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/defaults.toml
var defaultProfile []byte

// GetDefaultProfileContent returns the embedded default profile, used by
// the genconfig command as the starting point for a user profile.
func GetDefaultProfileContent() string {
	return string(defaultProfile)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
