// Package cmd implements the tripvault CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/tripvault/internal/model"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", flagConfig)
	if _, err := os.Stat(flagConfig); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Draft store: %s\n", flagDraftDB)
	fmt.Println()

	p := cfg.Planner
	fmt.Println("  [Planner]")
	fmt.Printf("    Currency:      %q\n", p.Symbol())
	fmt.Printf("    Vehicle:       %s\n", p.Vehicle)
	fmt.Printf("    Car:           %v km/l at %v\n", p.Mileage, p.FuelPrice)
	fmt.Printf("    Bike:          %v km/l at %v\n", p.BikeMileage, p.BikeFuelPrice)
	fmt.Printf("    Train/flight:  %v / %v per person\n", p.TrainTicket, p.FlightTicket)
	fmt.Printf("    People:        %d\n", p.People)
	fmt.Printf("    Default split: %s\n", p.DefaultMode)
	fmt.Printf("    Tier:          %s\n", p.Tier)
	fmt.Println()

	fmt.Println("  [Tiers]")
	tiers := cfg.TierTable()
	for _, t := range model.Tiers {
		fmt.Printf("    %-9s x%v\n", t, tiers.Multiplier(t))
	}
	fmt.Println()

	fmt.Println("  [Remote]")
	if cfg.Remote.BaseURL != "" {
		fmt.Printf("    Base URL:   %s\n", cfg.Remote.BaseURL)
		fmt.Printf("    CSRF token: %s\n", maskSecret(cfg.Remote.CSRFToken))
		fmt.Printf("    Session id: %s\n", maskSecret(cfg.Remote.SessionID))
	} else {
		fmt.Println("    Not configured (plans stay local)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: http://%s/\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Render]")
	fmt.Printf("    Fast/slow:  %s / %s\n", cfg.Render.FastWindow(), cfg.Render.SlowWindow())
	fmt.Printf("    Autosave:   every %s\n", cfg.Render.AutosaveInterval())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `tripvault setup` to reconfigure.")
	return nil
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return "not set"
	case len(s) > 12:
		return s[:4] + "..." + s[len(s)-4:]
	case len(s) > 4:
		return s[:2] + "..."
	default:
		return "****"
	}
}
