package validation

import (
	"fmt"

	"github.com/pders01/gifr/internal/config"
)

// ValidateConfig checks the settings gifr acts on before anything touches the
// network or disk, normalizing the endpoint and file paths in place.
// permissive allows local endpoints and paths outside the gifr directories.
func ValidateConfig(cfg *config.Config, permissive bool) error {
	endpoints := NewEndpointValidator()
	paths := NewSecurePathHandler()
	if permissive {
		endpoints = NewPermissiveEndpointValidator()
		paths = NewPermissivePathHandler()
	}

	endpoint, err := endpoints.ValidateAndNormalize(cfg.API.Endpoint)
	if err != nil {
		return fmt.Errorf("api.endpoint: %w", err)
	}
	cfg.API.Endpoint = endpoint

	if err := ValidateRating(cfg.API.Rating); err != nil {
		return fmt.Errorf("api.rating: %w", err)
	}

	if cfg.Database.Path != ":memory:" {
		dbPath, err := paths.GetSecureDBPath(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("database.path: %w", err)
		}
		cfg.Database.Path = dbPath
	}

	if cfg.Log.Level != "off" {
		logPath, err := paths.GetSecureLogPath(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("log.file: %w", err)
		}
		cfg.Log.File = logPath
	}

	return nil
}
