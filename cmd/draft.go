package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/tripvault/internal/cli"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"
	"github.com/theirongolddev/tripvault/internal/store"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or clear the local draft",
	RunE:  runDraftShow,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show when the draft was saved and what it holds",
	RunE:  runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the draft and forget the saved trip id",
	RunE:  runDraftClear,
}

func init() {
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
	rootCmd.AddCommand(draftCmd)
}

func openDraftsOrFail() (*store.Store, error) {
	if flagNoDraft {
		return nil, errors.New("--no-draft leaves nothing to inspect")
	}
	st, err := store.Open(flagDraftDB)
	if err != nil {
		return nil, fmt.Errorf("opening draft store: %w", err)
	}
	return st, nil
}

func runDraftShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openDraftsOrFail()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	fmt.Printf("  Draft store: %s\n", flagDraftDB)

	it, at, err := st.LoadDraft()
	switch {
	case errors.Is(err, store.ErrNoDraft):
		fmt.Println("  Status: empty")
		return nil
	case errors.Is(err, store.ErrCorruptDraft):
		fmt.Println("  Status: unreadable (a fresh plan will be started)")
		return nil
	case err != nil:
		return err
	}

	res := pipeline.AggregateWith(it, cfg.TierTable())
	name := it.Trip.Name
	if name == "" {
		name = "Untitled trip"
	}

	fmt.Printf("  Saved:  %s (%s)\n", cli.FormatTime(at), cli.FormatAge(at, time.Now()))
	fmt.Printf("  Trip:   %s\n", name)
	fmt.Printf("  Days:   %d\n", len(it.Days))
	fmt.Printf("  Total:  %s\n", money.FormatCurrency(cfg.Planner.Symbol(), res.TripTotal))
	if id := currentTripID(st); id != 0 {
		fmt.Printf("  Trip id: %d\n", id)
	} else {
		fmt.Println("  Trip id: not saved yet")
	}
	if err := it.Validate(); err != nil {
		fmt.Printf("  Warning: %v\n", err)
	}
	return nil
}

func runDraftClear(_ *cobra.Command, _ []string) error {
	st, err := openDraftsOrFail()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.ClearDraft(); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	if err := st.ClearCurrentTripID(); err != nil {
		return fmt.Errorf("clearing trip id: %w", err)
	}
	fmt.Println("  Draft cleared. The next run starts a fresh plan.")
	return nil
}
