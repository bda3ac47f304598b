package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/regmeter/regmeter/internal/analyzer"
	"github.com/spf13/cobra"
)

var analyzeDate string
var analyzeAgency string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute per-agency metrics for one effective date",
	RunE: func(cmd *cobra.Command, args []string) error {
		an, client, _, cfg, err := newEngine()
		if err != nil {
			return err
		}
		defer client.Close()

		date := analyzeDate
		if date == "" {
			date = cfg.DefaultDate
		}
		if err := checkDate(date); err != nil {
			return err
		}

		results, err := an.Analyze(cmd.Context(), date, analyzeAgency)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no data for %s\n", date)
			return nil
		}

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			printReport(out, results[name])
		}
		return nil
	},
}

func printReport(out io.Writer, rep analyzer.Report) {
	fmt.Fprintln(out, headingStyle.Render(rep.AgencyName))
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("word count:"), valueStyle.Render(fmt.Sprintf("%d", rep.WordCount)))
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("checksum:  "), valueStyle.Render(rep.Checksum))
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("complexity:"), valueStyle.Render(formatComplexity(rep.Complexity)))
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("titles:    "), valueStyle.Render(formatTitleList(rep.TitlesAnalyzed)))
}

func formatComplexity(c *float64) string {
	if c == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *c)
}

func formatTitleList(titles []int) string {
	if len(titles) == 0 {
		return "none"
	}
	parts := make([]string, len(titles))
	for i, t := range titles {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, ", ")
}

func checkDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "Effective date YYYY-MM-DD (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAgency, "agency", "", "Restrict the run to one agency")

	rootCmd.AddCommand(analyzeCmd)
}
