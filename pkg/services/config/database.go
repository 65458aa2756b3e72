package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const defaultProfilesFile = ".labcost.ini"

// DefaultProfilesPath is $HOME/.labcost.ini, or the bare file name when the
// home directory cannot be determined.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultProfilesFile
	}
	return filepath.Join(home, defaultProfilesFile)
}

// ResolveDSN returns the configured DSN, or the DSN of the configured profile
// when no DSN is set.
func (c DatabaseConfig) ResolveDSN(ctx context.Context) (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	if c.Profile == "" {
		return "", fmt.Errorf("database.dsn or database.profile is required")
	}

	path := c.ProfilesFile
	if path == "" {
		path = DefaultProfilesPath()
	}
	registry, err := NewProfileRegistry(path)
	if err != nil {
		return "", err
	}
	profile, err := registry.GetProfile(ctx, c.Profile)
	if err != nil {
		return "", err
	}

	zerolog.Ctx(ctx).Debug().
		Str("profile", profile.String()).
		Str("profiles_file", path).
		Msg("database profile resolved")
	return profile.DSN(), nil
}
