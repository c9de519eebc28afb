package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/gifr/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition defines how a viewer should be invoked
type PlayerDefinition struct {
	Description string           `toml:"description"`
	Platforms   []string         `toml:"platforms"`
	Video       *MediaTypeConfig `toml:"video,omitempty"`
	Image       *MediaTypeConfig `toml:"image,omitempty"`
}

// MediaTypeConfig holds the arguments for one media type
type MediaTypeConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

type PlayerRegistry struct {
	players map[string]PlayerDefinition
	goos    string
}

// NewPlayerRegistry loads the embedded definitions and merges
// ~/.config/gifr/players.toml on top when present.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	var config PlayersConfig
	if err := toml.Unmarshal(playersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}

	registry := &PlayerRegistry{players: config.Players, goos: runtime.GOOS}
	if registry.players == nil {
		registry.players = make(map[string]PlayerDefinition)
	}

	if home, err := os.UserHomeDir(); err == nil {
		registry.LoadFile(filepath.Join(home, ".config", "gifr", "players.toml"))
	}

	return registry, nil
}

// LoadFile merges definitions from path over the current ones. A missing or
// unparsable file is skipped.
func (r *PlayerRegistry) LoadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var userConfig PlayersConfig
	if err := toml.Unmarshal(data, &userConfig); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	for name, def := range userConfig.Players {
		r.players[name] = def
	}
}

// GetCommand builds the command for a viewer and media type. Unknown viewers
// are invoked with the URL as their only argument.
func (r *PlayerRegistry) GetCommand(playerName string, mediaType Type, url string) (*exec.Cmd, error) {
	player, exists := r.players[playerName]
	if !exists {
		return exec.Command(playerName, url), nil
	}

	if !slices.Contains(player.Platforms, r.goos) {
		return nil, fmt.Errorf("%s not supported on %s", playerName, r.goos)
	}

	var config *MediaTypeConfig
	switch mediaType {
	case TypeVideo:
		config = player.Video
	case TypeImage:
		config = player.Image
	}

	if config == nil {
		return nil, fmt.Errorf("%s doesn't support %s", playerName, mediaType)
	}

	args := append(slices.Clone(r.getArgs(config)), url)
	return exec.Command(playerName, args...), nil
}

func (r *PlayerRegistry) getArgs(config *MediaTypeConfig) []string {
	switch r.goos {
	case "darwin":
		if len(config.ArgsDarwin) > 0 {
			return config.ArgsDarwin
		}
	case "linux":
		if len(config.ArgsLinux) > 0 {
			return config.ArgsLinux
		}
	case "windows":
		if len(config.ArgsWindows) > 0 {
			return config.ArgsWindows
		}
	}
	return config.Args
}
