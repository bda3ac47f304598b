package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/regmeter/regmeter/internal/analyzer"
	"github.com/regmeter/regmeter/internal/config"
	"github.com/regmeter/regmeter/internal/fetch"
	"github.com/regmeter/regmeter/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "regmeter",
	Short: "Per-agency metrics over versioned federal regulations",
	Long: `regmeter resolves which CFR titles and chapters belong to each federal
agency, extracts that text from the versioned title XML, and reduces it to
word counts, content checksums and readability grades, with a historical
comparison between two effective dates.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEngine wires the analyzer with its filesystem store and eCFR client.
// CLI runs keep logging on stderr at warn level so command output stays clean.
func newEngine() (*analyzer.Analyzer, *fetch.Client, *store.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, config.Config{}, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	st := store.New(cfg.DataDir)
	client := fetch.NewClient(cfg.ECFRBaseURL, cfg.FetchTimeout, cfg.FetchRetries)
	return analyzer.New(st, client, log), client, st, cfg, nil
}
