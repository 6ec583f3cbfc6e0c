package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/theirongolddev/tripvault/internal/config"
	"github.com/theirongolddev/tripvault/internal/tui"
	"github.com/theirongolddev/tripvault/internal/tui/theme"
	"github.com/theirongolddev/tripvault/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive planner",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Logs would tear the alternate screen.
	logOut := io.Discard
	logPath := filepath.Join(config.DataDir(), "tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err == nil {
		//nolint:gosec // log path is under the user's data dir
		if f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600); err == nil {
			defer func() { _ = f.Close() }()
			logOut = f
		}
	}
	logging.SetupTo(logOut, logging.LevelFromEnv(), true)

	client, err := newRemote(cfg)
	if err != nil {
		return err
	}

	st := openDrafts()
	if st != nil {
		defer func() { _ = st.Close() }()
	}
	session := openSession(cfg, st)
	defer session.Close()

	ctx, stopAutosave := context.WithCancel(context.Background())
	defer stopAutosave()
	go session.Autosave(ctx, cfg.Render.AutosaveInterval())

	_, statErr := os.Stat(flagConfig)
	opts := tui.Options{
		Session:    session,
		TripIDs:    tripIDs(st),
		ShareBase:  shareBase(cfg),
		Symbol:     cfg.Planner.Symbol(),
		NeedSetup:  os.IsNotExist(statErr),
		ConfigPath: flagConfig,
	}
	if client != nil {
		opts.Remote = client
	}

	app, err := tui.NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
