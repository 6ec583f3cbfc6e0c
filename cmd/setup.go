package cmd

import (
	"fmt"

	"github.com/theirongolddev/tripvault/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set trip defaults, theme and the save service",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	if err := tui.RunSetup(flagConfig); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", flagConfig)
	fmt.Println("  Run `tripvault setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
