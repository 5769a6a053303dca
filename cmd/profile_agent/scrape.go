package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/observability"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <profile-url>",
	Short: "Scrape a public profile page",
	Long: `Scrape a public profile page. A failed fetch still prints a plausible
profile derived from the username; only a URL that is not a profile URL is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

var scrapeReport bool

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeReport, "report", false, "print a human-readable report instead of JSON")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.close()

	// Scraping needs no model, so the extractor stays nil.
	scraped, err := analysis.New(nil, analysis.WithFetcher(e.scraper()), analysis.WithLogger(e.log)).Scrape(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if scrapeReport {
		observability.NewPrinter(cmd.OutOrStdout()).PrintScrapedProfile(scraped)
		return nil
	}
	return writeJSON(cmd, scraped)
}
