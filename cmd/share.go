package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/planner"
	"github.com/theirongolddev/tripvault/internal/share"

	"github.com/spf13/cobra"
)

var flagShareBase string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a link that opens the current plan",
	RunE:  runShare,
}

var shareImportCmd = &cobra.Command{
	Use:   "import <link>",
	Short: "Apply the plan in a share link to the local draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareImport,
}

func init() {
	shareCmd.Flags().StringVar(&flagShareBase, "base", "", "Page the link points at (default: the local planner server)")
	shareCmd.AddCommand(shareImportCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShare(_ *cobra.Command, _ []string) error {
	cfg, it, _, err := loadPlan()
	if err != nil {
		return err
	}
	base := flagShareBase
	if base == "" {
		base = shareBase(cfg)
	}
	link, err := share.Link(base, it)
	if err != nil {
		return fmt.Errorf("building share link: %w", err)
	}
	fmt.Println(link)
	return nil
}

func runShareImport(_ *cobra.Command, args []string) error {
	token, err := share.TokenFromURL(args[0])
	if errors.Is(err, share.ErrNoToken) {
		// a bare token rather than a link
		token, err = args[0], nil
	}
	if err != nil {
		return fmt.Errorf("reading share link: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openDrafts()
	if st == nil {
		return errors.New("draft store unavailable")
	}
	defer func() { _ = st.Close() }()

	// The link only replaces what it carries; the rest comes from the
	// current draft.
	base := planner.Hydrate(st, "", cfg.Planner.TripDefaults(), nil, slog.Default())
	it, err := share.DecodeOnto(token, base)
	if err != nil {
		return fmt.Errorf("reading share link: %w", err)
	}
	it.EnsureDay(model.UUIDSource{})

	if err := st.SaveDraft(it); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	// The imported plan is not the trip the cached id points at.
	if err := st.ClearCurrentTripID(); err != nil {
		return fmt.Errorf("clearing trip id: %w", err)
	}
	fmt.Printf("  Imported %q (%d days) into %s\n", it.Trip.Name, len(it.Days), flagDraftDB)
	return nil
}
