package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFilePathValidator(t *testing.T) {
	v := NewFilePathValidator()
	homeDir, _ := os.UserHomeDir()

	if v.AllowRelativePaths {
		t.Error("Expected AllowRelativePaths to be false for security")
	}
	if !v.AllowHomeExpansion {
		t.Error("Expected AllowHomeExpansion to be true")
	}

	want := filepath.Join(homeDir, ".gifr")
	found := false
	for _, dir := range v.AllowedBaseDirs {
		if dir == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %s in AllowedBaseDirs, got %v", want, v.AllowedBaseDirs)
	}
}

func TestNewPermissiveFilePathValidator(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	if len(v.AllowedBaseDirs) != 0 {
		t.Errorf("Expected no base dir restriction, got %v", v.AllowedBaseDirs)
	}
	if !v.AllowRelativePaths {
		t.Error("Expected AllowRelativePaths to be true for permissive mode")
	}
}

func TestValidateAndSanitize(t *testing.T) {
	v := NewFilePathValidator()
	homeDir, _ := os.UserHomeDir()
	tempDir := os.TempDir()

	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
		errorMsg    string
	}{
		{name: "empty path", input: "", shouldError: true, errorMsg: "path cannot be empty"},
		{
			name:     "home expansion",
			input:    "~/.gifr/gifr.db",
			expected: filepath.Join(homeDir, ".gifr", "gifr.db"),
		},
		{
			name:     "temp dir",
			input:    filepath.Join(tempDir, "gifr-test.db"),
			expected: filepath.Join(tempDir, "gifr-test.db"),
		},
		{name: "null byte", input: "/tmp/test\x00.db", shouldError: true, errorMsg: "null bytes"},
		{name: "control character", input: "/tmp/te\x01st.db", shouldError: true, errorMsg: "control characters"},
		{name: "traversal", input: "~/.gifr/../../etc/passwd", shouldError: true, errorMsg: "dangerous sequence"},
		{name: "double slash", input: "/tmp//gifr.db", shouldError: true, errorMsg: "dangerous sequence"},
		{name: "outside allowed dirs", input: "/etc/gifr.db", shouldError: true, errorMsg: "not within allowed"},
		{name: "bare tilde user", input: "~root/gifr.db", shouldError: true, errorMsg: "tilde"},
		{name: "too long", input: "/" + strings.Repeat("a", 5000), shouldError: true, errorMsg: "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateAndSanitize(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("Expected error for %q, got %q", tt.input, result)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidateAndSanitizePermissive(t *testing.T) {
	v := NewPermissiveFilePathValidator()

	for _, input := range []string{"/etc/gifr.db", "gifr.db", "data/gifr.db"} {
		if _, err := v.ValidateAndSanitize(input); err != nil {
			t.Errorf("permissive validator rejected %q: %v", input, err)
		}
	}
}

func TestValidateDirectory(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	base := t.TempDir()

	newDir := filepath.Join(base, "nested", "dir")
	got, err := v.ValidateDirectory(newDir, true)
	if err != nil {
		t.Fatalf("ValidateDirectory() error = %v", err)
	}
	if info, statErr := os.Stat(got); statErr != nil || !info.IsDir() {
		t.Errorf("directory %s was not created", got)
	}

	missing := filepath.Join(base, "missing")
	if _, err := v.ValidateDirectory(missing, false); err != nil {
		t.Errorf("missing directory without create should pass, got %v", err)
	}
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Error("directory should not have been created")
	}

	file := filepath.Join(base, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := v.ValidateDirectory(file, false); err == nil {
		t.Error("expected error for a file path")
	}
}

func TestValidateFile(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	base := t.TempDir()

	if _, err := v.ValidateFile(filepath.Join(base, "gifr.db")); err != nil {
		t.Errorf("ValidateFile() error = %v", err)
	}
	if _, err := v.ValidateFile(base); err == nil {
		t.Error("expected error for a directory")
	}
}
