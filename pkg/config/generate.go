package config

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/archup/archup/pkg/errors"
)

// Marshal renders a resolved profile back to TOML. genconfig --resolved
// uses this to show the effective configuration after all layering.
func Marshal(profile *Profile) (string, error) {
	out, err := gotoml.Marshal(profile)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal profile")
	}
	return string(out), nil
}
