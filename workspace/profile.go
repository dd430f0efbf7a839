package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"geoflow/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir   = ".config/geoflow"
	profileFileName = "profile.yaml"
)

// Profile is the on-disk connection profile consumed by the CLI. The
// library surface takes injected workspaces and never reads it.
type Profile struct {
	URL      string  `yaml:"url"`
	Token    string  `yaml:"token"`
	Defaults Context `yaml:"defaults"`
}

// DefaultProfilePath returns the profile location under the user config
// directory.
func DefaultProfilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, profileFileName), nil
}

// LoadProfile loads the profile from path. A missing file yields the zero
// profile without error so that callers can rely on flags alone.
func LoadProfile(path string) (Profile, error) {
	var profile Profile

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("profile", "No profile found at %s, using defaults", path)
			return profile, nil
		}
		return Profile{}, err
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		// profile malformed
		return Profile{}, fmt.Errorf("error loading profile from %s: %w", path, err)
	}
	logging.Info("profile", "Loaded profile from %s", path)
	return profile, nil
}
