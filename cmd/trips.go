package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/tripvault/internal/cli"
	"github.com/theirongolddev/tripvault/internal/remote"
	"github.com/theirongolddev/tripvault/internal/store"

	"github.com/spf13/cobra"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List trips saved on the trip service",
	RunE:  runTripsList,
}

var tripsOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Fetch a saved trip into the local draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsOpen,
}

var tripsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsDelete,
}

func init() {
	tripsCmd.AddCommand(tripsOpenCmd)
	tripsCmd.AddCommand(tripsDeleteCmd)
	rootCmd.AddCommand(tripsCmd)
}

// remoteClient loads config and returns the save service client.
func remoteClient() (*remote.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := newRemote(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errNoRemote
	}
	return client, nil
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func parseTripID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trip id %q", s)
	}
	return id, nil
}

// currentTripID returns the cached id of the trip in the draft, or 0.
func currentTripID(st *store.Store) int64 {
	if st == nil {
		return 0
	}
	id, ok, err := st.CurrentTripID()
	if err != nil || !ok {
		return 0
	}
	return id
}

func runTripsList(_ *cobra.Command, _ []string) error {
	client, err := remoteClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	trips, err := client.List(ctx)
	if errors.Is(err, remote.ErrUnauthorized) {
		return fmt.Errorf("%w: %s", err, client.LoginURL())
	}
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		fmt.Println("\n  No saved trips yet. Save one with `tripvault save`.")
		return nil
	}

	st := openDrafts()
	if st != nil {
		defer func() { _ = st.Close() }()
	}
	current := currentTripID(st)

	now := time.Now()
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		mark := ""
		if t.ID == current {
			mark = "*"
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10) + mark,
			cli.Truncate(t.Name, 40),
			cli.FormatTime(t.CreatedAt),
			cli.FormatAge(t.UpdatedAt, now),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Saved trips",
		Headers: []string{"ID", "Name", "Created", "Updated"},
		Rows:    rows,
	}))
	if current != 0 {
		fmt.Println("  * open in the local draft")
	}
	fmt.Println()
	return nil
}

func runTripsOpen(_ *cobra.Command, args []string) error {
	id, err := parseTripID(args[0])
	if err != nil {
		return err
	}
	client, err := remoteClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	it, name, err := client.Get(ctx, id)
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("trip %d: %w", id, err)
	}
	if err != nil {
		return err
	}
	if it.Trip.Name == "" {
		it.Trip.Name = name
	}

	st := openDrafts()
	if st == nil {
		return errors.New("draft store unavailable")
	}
	defer func() { _ = st.Close() }()

	if err := st.SaveDraft(it); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	if err := st.SetCurrentTripID(id); err != nil {
		return fmt.Errorf("caching trip id: %w", err)
	}
	fmt.Printf("  Opened %q (%d days). `tripvault save` now updates trip %d.\n", it.Trip.Name, len(it.Days), id)
	return nil
}

func runTripsDelete(_ *cobra.Command, args []string) error {
	id, err := parseTripID(args[0])
	if err != nil {
		return err
	}
	client, err := remoteClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	msg, err := client.Delete(ctx, id)
	if err != nil {
		return err
	}

	st := openDrafts()
	if st != nil {
		defer func() { _ = st.Close() }()
		if currentTripID(st) == id {
			if err := st.ClearCurrentTripID(); err != nil {
				return fmt.Errorf("clearing trip id: %w", err)
			}
		}
	}

	if msg == "" {
		msg = "Trip deleted."
	}
	fmt.Printf("  %s\n", msg)
	return nil
}
