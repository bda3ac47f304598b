package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var historyAgency string
var historyDates []string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Compare an agency's metrics across effective dates",
	Long: `Compare an agency's metrics across effective dates. With exactly two
dates the output includes the change in word count and complexity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyAgency == "" {
			return fmt.Errorf("--agency is required")
		}
		if len(historyDates) == 0 {
			return fmt.Errorf("at least one --dates is required")
		}
		for _, d := range historyDates {
			if err := checkDate(d); err != nil {
				return err
			}
		}

		an, client, _, _, err := newEngine()
		if err != nil {
			return err
		}
		defer client.Close()

		history, err := an.History(cmd.Context(), historyDates, historyAgency)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(history))
		for name := range history {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			rec := history[name]
			fmt.Fprintln(out, headingStyle.Render(name))
			for _, date := range historyDates {
				dm, ok := rec.Dates[date]
				if !ok {
					fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(date+":"), valueStyle.Render("no data"))
					continue
				}
				fmt.Fprintf(out, "  %s words=%d complexity=%s checksum=%s\n",
					labelStyle.Render(date+":"), dm.WordCount, formatComplexity(dm.Complexity), dm.Checksum[:12])
			}
			if rec.Delta != nil {
				fmt.Fprintf(out, "  %s words %+d, complexity %s\n",
					deltaStyle.Render("delta:"), rec.Delta.WordCount, formatDelta(rec.Delta.ComplexityChange))
			}
		}
		return nil
	},
}

func formatDelta(c *float64) string {
	if c == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f", *c)
}

func init() {
	historyCmd.Flags().StringVar(&historyAgency, "agency", "", "Agency display name (required)")
	historyCmd.Flags().StringArrayVar(&historyDates, "dates", nil, "Effective date YYYY-MM-DD (repeat for comparison)")

	rootCmd.AddCommand(historyCmd)
}
