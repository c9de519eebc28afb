package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/dispatch"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/topics"
	"github.com/pders01/gifr/internal/tui"
	"github.com/pders01/gifr/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	apiKey     string
	logLevel   string
	quiet      bool
	allowLocal bool

	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:           "gifr",
	Short:         "Browse GIFs by topic in the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("gifr %s\n", Version)
		fmt.Println(tui.Tagline)
		fmt.Println("github.com/pders01/gifr")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	Run: func(_ *cobra.Command, _ []string) {
		path := configPath
		if path == "" {
			var err error
			path, err = validation.NewSecurePathHandler().GetSecureConfigPath("")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to resolve config path: %v\n", err)
				os.Exit(1)
			}
		}

		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <topic>",
	Short: "Run one search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List or add topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the topic list in render order",
	Args:  cobra.NoArgs,
	RunE:  runTopicsList,
}

var topicsAddCmd = &cobra.Command{
	Use:   "add <topic>",
	Short: "Save a topic for the next session",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTopicsAdd,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	pf.StringVar(&apiKey, "api-key", "", "API key (overrides config and GIFR_API_KEY)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	pf.BoolVar(&allowLocal, "allow-local", false, "Allow local endpoints and paths outside ~/.gifr")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of searches to show (0 for all)")

	configCmd.AddCommand(configGenCmd)
	topicsCmd.AddCommand(topicsListCmd, topicsAddCmd)
	rootCmd.AddCommand(versionCmd, configCmd, searchCmd, topicsCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration, applies flag overrides, validates
// it and starts logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath != "" {
		cfg.Database.Path = config.ExpandPath(dbPath)
	}
	if apiKey != "" {
		cfg.API.Key = apiKey
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := validation.ValidateConfig(cfg, allowLocal); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.NewStoreWithTimeout(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	return store, nil
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if !quiet {
		tui.ShowBanner(Version)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	debuglog.Infof("starting gifr %s", Version)

	app := tui.NewApp(store, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	topic := strings.Join(args, " ")
	d := dispatch.New(giphy.NewClient(cfg))

	if store, err := openStore(cfg); err == nil {
		defer store.Close()
		d.WithHistory(store)
	} else {
		debuglog.Warnf("search history disabled: %v", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	n := 0
	for r, err := range d.Stream(ctx, topic) {
		if err != nil {
			if errors.Is(err, giphy.ErrMissingAPIKey) {
				return fmt.Errorf("%w; pass --api-key or export GIFR_API_KEY", err)
			}
			return fmt.Errorf("search '%s': %w", topic, err)
		}
		n++
		fmt.Fprintf(out, "%s\t%s\t%s\n", r.Rating, r.StaticURL, r.AnimatedURL)
	}
	if n == 0 {
		fmt.Fprintf(out, "No results for '%s'\n", topic)
	}
	return nil
}

// sessionTopics is the list a new session would render: the configured seed
// followed by saved topics.
func sessionTopics(cfg *config.Config, store *storage.Store) ([]string, error) {
	list := append([]string(nil), cfg.Topics.Seed...)
	if !cfg.Topics.Persist {
		return list, nil
	}
	saved, err := store.TopicTexts()
	if err != nil {
		return nil, err
	}
	return append(list, saved...), nil
}

func runTopicsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := sessionTopics(cfg, store)
	if err != nil {
		return fmt.Errorf("reading topics: %w", err)
	}

	out := cmd.OutOrStdout()
	reg := topics.New(func(ts []string) {
		for i, t := range ts {
			fmt.Fprintf(out, "%2d  %s\n", i+1, t)
		}
	})
	reg.Initialize(list)
	return nil
}

func runTopicsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	text := strings.Join(args, " ")
	reg := topics.New(nil)
	if !reg.Add(text) {
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.AppendTopic(text); err != nil {
		return fmt.Errorf("saving topic: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added topic '%s'\n", text)
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.GetSearches(historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No searches yet")
		return nil
	}

	t := table.New().Headers("WHEN", "TOPIC", "RESULTS", "TOOK", "ERROR")
	for _, r := range recs {
		t.Row(
			r.CompletedAt.Format("2006-01-02 15:04:05"),
			r.Topic,
			fmt.Sprintf("%d", r.Count),
			r.Duration().Round(time.Millisecond).String(),
			r.Error,
		)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
