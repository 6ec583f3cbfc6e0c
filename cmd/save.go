package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagAsNew       bool
	flagSaveTimeout time.Duration
)

// errNoRemote is returned by commands that need the save service.
var errNoRemote = errors.New("no save service configured (set [remote] base_url or run `tripvault setup`)")

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current plan to the trip service",
	RunE:  runSave,
}

func init() {
	saveCmd.Flags().BoolVar(&flagAsNew, "as-new", false, "Save as a new trip, marking the name as a copy")
	saveCmd.Flags().DurationVar(&flagSaveTimeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.AddCommand(saveCmd)
}

func runSave(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newRemote(cfg)
	if err != nil {
		return err
	}
	if client == nil {
		return errNoRemote
	}

	st := openDrafts()
	if st != nil {
		defer func() { _ = st.Close() }()
	}
	session := openSession(cfg, st)
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), flagSaveTimeout)
	defer cancel()

	out, err := session.Save(ctx, client, tripIDs(st), flagAsNew)
	fmt.Printf("  %s\n", out.Notice.Text)
	if out.Notice.Link != "" {
		fmt.Printf("  %s\n", out.Notice.Link)
	}
	if err != nil {
		return err
	}
	if out.Created {
		fmt.Printf("  Trip id: %d\n", out.Result.TripID)
	}
	return nil
}
