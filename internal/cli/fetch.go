package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchDate string
var fetchTitles []int
var fetchFeeds bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Prefetch title documents and reference feeds into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, st, cfg, err := newEngine()
		if err != nil {
			return err
		}
		defer client.Close()

		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		if fetchFeeds {
			data, err := client.Agencies(ctx)
			if err != nil {
				return fmt.Errorf("fetch agency feed: %w", err)
			}
			if err := st.PutAgencies(data); err != nil {
				return err
			}
			fmt.Fprintln(out, "agency feed saved")

			data, err = client.TitlesSummary(ctx)
			if err != nil {
				return fmt.Errorf("fetch titles summary: %w", err)
			}
			if err := st.PutTitlesSummary(data); err != nil {
				return err
			}
			fmt.Fprintln(out, "titles summary saved")
		}

		if len(fetchTitles) == 0 {
			if !fetchFeeds {
				return fmt.Errorf("nothing to fetch: pass --title or --feeds")
			}
			return nil
		}

		date := fetchDate
		if date == "" {
			date = cfg.DefaultDate
		}
		if err := checkDate(date); err != nil {
			return err
		}

		for _, title := range fetchTitles {
			if st.HasDocument(title, date) {
				fmt.Fprintf(out, "title %d already cached for %s\n", title, date)
				continue
			}
			data, err := client.TitleXML(ctx, date, title)
			if err != nil {
				fmt.Fprintf(out, "title %d: %v\n", title, err)
				continue
			}
			if err := st.PutDocument(title, date, data); err != nil {
				return err
			}
			fmt.Fprintf(out, "title %d saved for %s (%d bytes)\n", title, date, len(data))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "Effective date YYYY-MM-DD (default from config)")
	fetchCmd.Flags().IntSliceVar(&fetchTitles, "title", nil, "Title number to download (repeatable)")
	fetchCmd.Flags().BoolVar(&fetchFeeds, "feeds", false, "Also download the agency and titles summary feeds")

	rootCmd.AddCommand(fetchCmd)
}
