package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultEndpoint = "https://api.giphy.com/v1/gifs/search"
	DefaultLimit    = 10
)

// DefaultSeedTopics is the topic list a fresh session starts with.
var DefaultSeedTopics = []string{"banana", "apple", "grape", "orange", "mango"}

type Config struct {
	API      APIConfig      `mapstructure:"api" toml:"api"`
	Topics   TopicsConfig   `mapstructure:"topics" toml:"topics"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	UI       UIConfig       `mapstructure:"ui" toml:"ui"`
	Media    MediaConfig    `mapstructure:"media" toml:"media"`
	Keys     KeyConfig      `mapstructure:"keys" toml:"keys"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

type APIConfig struct {
	Endpoint    string        `mapstructure:"endpoint" toml:"endpoint"`
	Key         string        `mapstructure:"key" toml:"key"`
	Limit       int           `mapstructure:"limit" toml:"limit"`
	Rating      string        `mapstructure:"rating" toml:"rating"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" toml:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent" toml:"user_agent"`
}

type TopicsConfig struct {
	Seed    []string `mapstructure:"seed" toml:"seed"`
	Persist bool     `mapstructure:"persist" toml:"persist"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path" toml:"path"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout"`
}

type UIConfig struct {
	Colors         UIColors     `mapstructure:"colors" toml:"colors"`
	Detail         DetailConfig `mapstructure:"detail" toml:"detail"`
	CaptionOnHover bool         `mapstructure:"caption_on_hover" toml:"caption_on_hover"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary" toml:"primary"`
	Secondary  string `mapstructure:"secondary" toml:"secondary"`
	Accent     string `mapstructure:"accent" toml:"accent"`
	Background string `mapstructure:"background" toml:"background"`
	Surface    string `mapstructure:"surface" toml:"surface"`
	Text       string `mapstructure:"text" toml:"text"`
	Muted      string `mapstructure:"muted" toml:"muted"`
	Error      string `mapstructure:"error" toml:"error"`
	Success    string `mapstructure:"success" toml:"success"`
}

type DetailConfig struct {
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width" toml:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width" toml:"word_wrap_min_width"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin" toml:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux" toml:"linux"`
	Windows       MediaPlayers `mapstructure:"windows" toml:"windows"`
	DefaultOpener string       `mapstructure:"default_opener" toml:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video" toml:"video"`
	Image []string `mapstructure:"image" toml:"image"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier" toml:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings" toml:"bindings"`
}

type KeyBindings struct {
	Quit       string `mapstructure:"quit" toml:"quit"`
	Find       string `mapstructure:"find" toml:"find"`
	NewTopic   string `mapstructure:"new_topic" toml:"new_topic"`
	Toggle     string `mapstructure:"toggle" toml:"toggle"`
	OpenMedia  string `mapstructure:"open_media" toml:"open_media"`
	Detail     string `mapstructure:"detail" toml:"detail"`
	SwitchPane string `mapstructure:"switch_pane" toml:"switch_pane"`
	Back       string `mapstructure:"back" toml:"back"`
	Help       string `mapstructure:"help" toml:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".gifr", "gifr.db")
	logPath := filepath.Join(homeDir, ".gifr", "gifr.log")

	return &Config{
		API: APIConfig{
			Endpoint:    DefaultEndpoint,
			Limit:       DefaultLimit,
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "gifr/1.0 (https://github.com/pders01/gifr)",
		},
		Topics: TopicsConfig{
			Seed:    append([]string(nil), DefaultSeedTopics...),
			Persist: true,
		},
		Database: DatabaseConfig{
			Path:    dbPath,
			Timeout: 1 * time.Second,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Detail: DetailConfig{
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
			},
			CaptionOnHover: true,
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
				Image: []string{"preview", "open"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc", "mplayer"},
				Image: []string{"sxiv", "feh", "eog", "xdg-open"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:       "q",
				Find:       "s",
				NewTopic:   "n",
				Toggle:     "enter",
				OpenMedia:  "o",
				Detail:     "i",
				SwitchPane: "tab",
				Back:       "esc",
				Help:       "?",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  logPath,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// setDefaults registers leaf keys so GIFR_* env overrides resolve. Plain
// string sections (colors, bindings) are decoded onto a populated default
// Config instead, which keeps unset fields intact.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.endpoint", cfg.API.Endpoint)
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.limit", cfg.API.Limit)
	v.SetDefault("api.rating", cfg.API.Rating)
	v.SetDefault("api.http_timeout", cfg.API.HTTPTimeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("topics.seed", cfg.Topics.Seed)
	v.SetDefault("topics.persist", cfg.Topics.Persist)

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	v.SetDefault("ui.caption_on_hover", cfg.UI.CaptionOnHover)
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)
	v.SetDefault("media.darwin.video", cfg.Media.Darwin.Video)
	v.SetDefault("media.darwin.image", cfg.Media.Darwin.Image)
	v.SetDefault("media.linux.video", cfg.Media.Linux.Video)
	v.SetDefault("media.linux.image", cfg.Media.Linux.Image)
	v.SetDefault("media.windows.video", cfg.Media.Windows.Video)
	v.SetDefault("media.windows.image", cfg.Media.Windows.Image)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := defaultConfig()
	setDefaults(v, defaults)
	// mapstructure overlays slices element-wise, so list defaults come from
	// viper rather than from the struct.
	defaults.Topics.Seed = nil
	defaults.Media.Darwin = MediaPlayers{}
	defaults.Media.Linux = MediaPlayers{}
	defaults.Media.Windows = MediaPlayers{}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "gifr")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GIFR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The credential is commonly exported under the provider's name.
	if err := v.BindEnv("api.key", "GIFR_API_KEY", "GIPHY_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	config := defaults
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.API.Limit <= 0 {
		config.API.Limit = DefaultLimit
	}

	expandPaths(config)

	return config, nil
}

// ExpandPath expands ~ to home directory and converts to absolute path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)
}

// Save writes cfg as TOML. The API key is deliberately left out so a
// generated file never carries a credential.
func Save(config *Config, path string) error {
	v := viper.New()

	apiCfg := map[string]interface{}{
		"endpoint":     config.API.Endpoint,
		"limit":        config.API.Limit,
		"rating":       config.API.Rating,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
	}

	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	topicsCfg := map[string]interface{}{
		"seed":    config.Topics.Seed,
		"persist": config.Topics.Persist,
	}

	v.Set("api", apiCfg)
	v.Set("topics", topicsCfg)
	v.Set("database", dbCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
