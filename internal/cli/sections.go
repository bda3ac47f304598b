package cli

import (
	"fmt"
	"sort"

	"github.com/regmeter/regmeter/internal/metrics"
	"github.com/spf13/cobra"
)

var sectionsAgency string
var sectionsDate string
var sectionsFull bool

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Show an agency's relevant chapters at one date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sectionsAgency == "" {
			return fmt.Errorf("--agency is required")
		}
		an, client, _, cfg, err := newEngine()
		if err != nil {
			return err
		}
		defer client.Close()

		date := sectionsDate
		if date == "" {
			date = cfg.DefaultDate
		}
		if err := checkDate(date); err != nil {
			return err
		}

		sections, err := an.Sections(cmd.Context(), sectionsAgency, date)
		if err != nil {
			return err
		}
		if len(sections) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no sections found for %s on %s\n", sectionsAgency, date)
			return nil
		}

		headings := make([]string, 0, len(sections))
		for h := range sections {
			headings = append(headings, h)
		}
		sort.Strings(headings)

		out := cmd.OutOrStdout()
		for _, h := range headings {
			fmt.Fprintln(out, headingStyle.Render(h))
			if sectionsFull {
				fmt.Fprintln(out, sections[h])
			} else {
				fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("words:"), valueStyle.Render(fmt.Sprintf("%d", metrics.WordCount(sections[h]))))
			}
		}
		return nil
	},
}

func init() {
	sectionsCmd.Flags().StringVar(&sectionsAgency, "agency", "", "Agency display name (required)")
	sectionsCmd.Flags().StringVar(&sectionsDate, "date", "", "Effective date YYYY-MM-DD (default from config)")
	sectionsCmd.Flags().BoolVar(&sectionsFull, "full", false, "Print full section text instead of word counts")

	rootCmd.AddCommand(sectionsCmd)
}
