package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/tripvault/internal/config"
	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/pipeline"
	"github.com/theirongolddev/tripvault/internal/planner"
	"github.com/theirongolddev/tripvault/internal/remote"
	"github.com/theirongolddev/tripvault/internal/share"
	"github.com/theirongolddev/tripvault/internal/store"
	"github.com/theirongolddev/tripvault/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDraftDB string
	flagPlan    string
	flagNoDraft bool
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:              "tripvault",
	Short:            "Trip budget planner",
	Long:             "Plan a multi-day trip and watch stay, transport, food, activity and misc costs add up.",
	PersistentPreRun: setupLogging,
	RunE:             runSummary,
	SilenceUsage:     true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.ConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&flagDraftDB, "draft-db", config.DraftPath(), "Draft store database")
	rootCmd.PersistentFlags().StringVarP(&flagPlan, "plan", "p", "", "Share link or plan token to open instead of the draft")
	rootCmd.PersistentFlags().BoolVar(&flagNoDraft, "no-draft", false, "Do not read or write the local draft")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func setupLogging(_ *cobra.Command, _ []string) {
	level := logging.LevelFromEnv()
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelWarn
	}
	logging.SetupWithLevel(level)
}

func loadConfig() (config.Config, error) {
	return config.LoadFrom(flagConfig)
}

// openDrafts opens the draft store. A store that cannot be opened is
// logged and the command carries on without one.
func openDrafts() *store.Store {
	if flagNoDraft {
		return nil
	}
	st, err := store.Open(flagDraftDB)
	if err != nil {
		slog.Warn("draft store unavailable", "path", flagDraftDB, "err", err)
		return nil
	}
	return st
}

// planToken returns the share token given by --plan, which may be a
// full link or the bare token.
func planToken() string {
	raw := strings.TrimSpace(flagPlan)
	if raw == "" || !strings.Contains(raw, "?") {
		return raw
	}
	token, err := share.TokenFromURL(raw)
	if err != nil {
		slog.Debug("ignoring --plan", "err", err)
		return ""
	}
	return token
}

// hydrate loads the starting plan without opening a session.
func hydrate(cfg config.Config, st *store.Store) model.Itinerary {
	var src planner.DraftSource
	if st != nil {
		src = st
	}
	return planner.Hydrate(src, planToken(), cfg.Planner.TripDefaults(), nil, slog.Default())
}

// loadPlan returns the starting plan and its totals for read-only commands.
func loadPlan() (config.Config, model.Itinerary, pipeline.Result, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, model.Itinerary{}, pipeline.Result{}, err
	}
	st := openDrafts()
	if st != nil {
		defer func() { _ = st.Close() }()
	}
	it := hydrate(cfg, st)
	return cfg, it, pipeline.AggregateWith(it, cfg.TierTable()), nil
}

// openSession starts an editing session backed by st, which may be nil.
func openSession(cfg config.Config, st *store.Store) *planner.Session {
	opts := planner.Options{
		Tiers:      cfg.TierTable(),
		FastWindow: cfg.Render.FastWindow(),
		SlowWindow: cfg.Render.SlowWindow(),
		Logger:     slog.Default(),
	}
	if st != nil {
		opts.Drafts = st
	}
	return planner.New(hydrate(cfg, st), opts)
}

// tripIDs returns st as a trip id cache, or nil.
func tripIDs(st *store.Store) planner.TripIDCache {
	if st == nil {
		return nil
	}
	return st
}

// newRemote returns a client for the configured save service, or nil
// when none is configured.
func newRemote(cfg config.Config) (*remote.Client, error) {
	if cfg.Remote.BaseURL == "" {
		return nil, nil
	}
	return remote.NewClient(cfg.Remote.BaseURL,
		remote.WithCSRFToken(cfg.Remote.CSRFToken),
		remote.WithSessionID(cfg.Remote.SessionID),
	)
}

// shareBase is the page a share link opens: the local planner server.
func shareBase(cfg config.Config) string {
	return "http://" + cfg.Server.Addr + "/"
}
