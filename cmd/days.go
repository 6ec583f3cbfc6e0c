package cmd

import (
	"fmt"

	"github.com/theirongolddev/tripvault/internal/cli"
	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"

	"github.com/spf13/cobra"
)

var flagDaysDetail bool

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Per-day cost breakdown",
	RunE:  runDays,
}

func init() {
	daysCmd.Flags().BoolVar(&flagDaysDetail, "detail", false, "Also list each day's route, stay and activities")
	rootCmd.AddCommand(daysCmd)
}

func runDays(_ *cobra.Command, _ []string) error {
	cfg, it, res, err := loadPlan()
	if err != nil {
		return err
	}
	symbol := cfg.Planner.Symbol()

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.DaysTable(it, res, symbol)))

	if !flagDaysDetail {
		fmt.Println()
		return nil
	}

	for i, d := range it.Days {
		fmt.Println()
		fmt.Printf("  Day %d  %s\n", i+1, d.Title)
		if d.Locations != "" {
			fmt.Printf("    Route      %s\n", d.Locations)
		}
		if d.TransportMode == model.TransportCab {
			fmt.Printf("    Cab        %s\n", money.FormatCurrency(symbol, float64(d.CabCost)))
		} else if d.Distance > 0 {
			fmt.Printf("    Distance   %s  (fuel %s)\n", cli.FormatKm(float64(d.Distance)),
				money.FormatCurrency(symbol, res.Days[i].Fuel*res.Multiplier))
		}
		if d.Stay.Name != "" || d.Stay.Cost > 0 {
			fmt.Printf("    Stay       %s %s\n", d.Stay.Name, money.FormatCurrency(symbol, float64(d.Stay.Cost)))
		}
		for _, a := range d.Activities {
			fmt.Printf("    Activity   %s %s (%s)\n", a.Name, money.FormatCurrency(symbol, float64(a.Cost)), cli.FormatMode(a.Mode))
		}
		for _, c := range d.CustomExpenses {
			fmt.Printf("    Extra      %s %s (%s)\n", c.Name, money.FormatCurrency(symbol, float64(c.Cost)), cli.FormatMode(c.Mode))
		}
		if d.ImportantPlans != "" {
			fmt.Printf("    Plans      %s\n", d.ImportantPlans)
		}
	}
	fmt.Println()
	return nil
}
