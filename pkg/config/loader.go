package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/archup/archup/pkg/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default locations probed for a profile when --config is not given.
var defaultProfilePaths = []string{
	"/etc/archup.toml",
	"/etc/archup.yaml",
	"archup.toml",
	"archup.yaml",
}

// parserFor selects the profile parser by file extension. TOML is the
// primary format; YAML is accepted for .yaml/.yml files.
func parserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// Load resolves the install profile. Layering, lowest to highest:
// embedded defaults, /etc/archup.{toml,yaml}, ./archup.{toml,yaml},
// the explicit --config file, ARCHUP_* environment variables.
func Load(explicitPath string) (*Profile, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultProfile}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	for _, path := range defaultProfilePaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load profile from %s", path)
			}
		}
	}

	if explicitPath != "" {
		if err := k.Load(file.Provider(explicitPath), parserFor(explicitPath)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load profile from %s", explicitPath)
		}
	}

	// ARCHUP_DISK_DEVICE=/dev/vda overrides disk.device and so on.
	if err := k.Load(env.Provider("ARCHUP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ARCHUP_")), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var profile Profile
	if err := k.Unmarshal("", &profile); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal profile")
	}

	return &profile, nil
}

// LoadValidated loads the profile and runs Validate on the result.
func LoadValidated(explicitPath string) (*Profile, error) {
	profile, err := Load(explicitPath)
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}
