package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const maxPathLength = 4096

// FilePathValidator confines the database, log and config files to known
// directories.
type FilePathValidator struct {
	// AllowedBaseDirs lists the roots a path must live under. Empty allows any.
	AllowedBaseDirs    []string
	AllowHomeExpansion bool
	AllowRelativePaths bool
	MaxPathLength      int
}

// NewFilePathValidator allows ~/.gifr, ~/.config/gifr and the temp dir.
func NewFilePathValidator() *FilePathValidator {
	home, _ := os.UserHomeDir()
	return &FilePathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(home, ".gifr"),
			filepath.Join(home, ".config", "gifr"),
			os.TempDir(),
		},
		AllowHomeExpansion: true,
		MaxPathLength:      maxPathLength,
	}
}

// NewPermissiveFilePathValidator accepts any well-formed path, as used by
// --allow-local.
func NewPermissiveFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowedBaseDirs:    []string{},
		AllowHomeExpansion: true,
		AllowRelativePaths: true,
		MaxPathLength:      maxPathLength,
	}
}

// Sequences rejected anywhere in a raw path.
var unsafeSequences = []string{"../", "..\\", "./", "//", "\\\\"}

// ValidateAndSanitize returns the cleaned, expanded form of path.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	switch {
	case path == "":
		return "", errors.New("path cannot be empty")
	case len(path) > v.MaxPathLength:
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	case strings.ContainsRune(path, 0):
		return "", errors.New("path contains null bytes")
	case strings.ContainsFunc(path, func(r rune) bool { return r < 32 && r != '\t' }):
		return "", errors.New("path contains control characters")
	}

	if i := slices.IndexFunc(unsafeSequences, func(seq string) bool { return strings.Contains(path, seq) }); i >= 0 {
		return "", fmt.Errorf("path contains dangerous sequence: %s", unsafeSequences[i])
	}

	cleaned, err := v.expand(path)
	if err != nil {
		return "", fmt.Errorf("path normalization failed: %w", err)
	}

	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return "", errors.New("directory traversal not allowed")
		}
	}

	if err := v.within(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

func (v *FilePathValidator) expand(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		if !v.AllowHomeExpansion || !strings.HasPrefix(path, "~/") {
			return "", errors.New("tilde expansion not allowed or invalid tilde usage")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if !v.AllowRelativePaths && !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
		path = abs
	}
	return filepath.Clean(path), nil
}

// within reports whether path sits under one of the allowed roots.
func (v *FilePathValidator) within(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	for _, base := range v.AllowedBaseDirs {
		root, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return nil
		}
	}
	return fmt.Errorf("path not within allowed directories: %v", v.AllowedBaseDirs)
}

// ValidateDirectory validates path as a directory, creating it when create
// is set. A missing directory is fine when create is not set.
func (v *FilePathValidator) ValidateDirectory(path string, create bool) (string, error) {
	dir, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if create {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
		}
		return dir, nil
	case err != nil:
		return "", fmt.Errorf("checking directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("path exists but is not a directory: %s", dir)
	}
	return dir, nil
}

// ValidateFile validates path as a regular file location.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	file, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}
	if err := v.within(filepath.Dir(file)); err != nil {
		return "", fmt.Errorf("parent directory not allowed: %w", err)
	}
	if info, err := os.Stat(file); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", file)
	}
	return file, nil
}
