package validation

import (
	"os"
	"path/filepath"
)

// PathHandler resolves gifr's own files, falling back to their default
// locations when no path is configured.
type PathHandler struct {
	validator *FilePathValidator
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator()}
}

func (ph *PathHandler) ExpandAndValidatePath(path string) (string, error) {
	return ph.validator.ValidateAndSanitize(path)
}

// resolve validates userPath, or the default under the home directory.
func (ph *PathHandler) resolve(userPath string, defaultParts ...string) (string, error) {
	if userPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(append([]string{home}, defaultParts...)...)
	}
	return ph.validator.ValidateFile(userPath)
}

// GetSecureDBPath defaults to ~/.gifr/gifr.db.
func (ph *PathHandler) GetSecureDBPath(userPath string) (string, error) {
	return ph.resolve(userPath, ".gifr", "gifr.db")
}

// GetSecureLogPath defaults to ~/.gifr/gifr.log.
func (ph *PathHandler) GetSecureLogPath(userPath string) (string, error) {
	return ph.resolve(userPath, ".gifr", "gifr.log")
}

// GetSecureConfigPath defaults to ~/.config/gifr/config.toml.
func (ph *PathHandler) GetSecureConfigPath(userPath string) (string, error) {
	return ph.resolve(userPath, ".config", "gifr", "config.toml")
}

func (ph *PathHandler) EnsureSecureDirectory(path string) (string, error) {
	return ph.validator.ValidateDirectory(path, true)
}
