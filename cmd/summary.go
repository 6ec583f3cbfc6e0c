package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/tripvault/internal/cli"
	"github.com/theirongolddev/tripvault/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Trip totals and where the money goes",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the computed totals as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg, it, res, err := loadPlan()
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	symbol := cfg.Planner.Symbol()
	name := it.Trip.Name
	if name == "" {
		name = "Untitled trip"
	}
	title := name
	if it.Trip.StartCity != "" || it.Trip.EndCity != "" {
		title += fmt.Sprintf("  %s → %s", it.Trip.StartCity, it.Trip.EndCity)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.SummaryTable(it, res, symbol)))

	if res.TripTotal > 0 {
		fmt.Println()
		fmt.Println("  Where the money goes")
		for i, key := range pipeline.CategoryKeys {
			fmt.Println(cli.RenderHorizontalBar(pipeline.CategoryLabels[i], res.Pct.Get(key), 11, 30))
		}
	}

	if len(res.Days) > 1 {
		perDay := make([]float64, len(res.Days))
		for i, d := range res.Days {
			perDay[i] = d.DayTotal * res.Multiplier
		}
		fmt.Println()
		fmt.Printf("  Per day  %s\n", cli.RenderSparkline(perDay))
	}

	if days := it.Trip.AutoDays(); days > 0 {
		fmt.Printf("  Dates    %d days, %d nights\n", days, it.Trip.AutoNights())
	}
	fmt.Println()
	return nil
}
