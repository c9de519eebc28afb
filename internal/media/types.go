package media

import (
	_ "embed"
	"net/url"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

type Type int

const (
	TypeImage Type = iota
	TypeVideo
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Image     TypeConfig                `toml:"image"`
	Video     TypeConfig                `toml:"video"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &config); err != nil {
		return nil, err
	}

	return &TypeDetector{config: &config}, nil
}

// DetectType classifies rawURL by its path extension first, then by known
// URL fragments. Query strings and fragments are ignored.
func (d *TypeDetector) DetectType(rawURL string) Type {
	lower := strings.ToLower(rawURL)

	p := lower
	isURL := false
	if u, err := url.Parse(lower); err == nil && u.Scheme != "" {
		p = u.Path
		isURL = u.Scheme == "http" || u.Scheme == "https"
	}

	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" {
		if slices.Contains(d.config.Video.Extensions, ext) {
			return TypeVideo
		}
		if slices.Contains(d.config.Image.Extensions, ext) {
			return TypeImage
		}
	}

	if isURL {
		if d.matchesPattern(lower, d.config.Video.URLPatterns) {
			return TypeVideo
		}
		if d.matchesPattern(lower, d.config.Image.URLPatterns) {
			return TypeImage
		}
	}

	return TypeUnknown
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

func (d *TypeDetector) matchesPattern(u string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(u, pattern) {
			return true
		}
	}
	return false
}
