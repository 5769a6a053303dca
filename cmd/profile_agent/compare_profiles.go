package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/observability"
	"github.com/jonathan/profile-analyzer/internal/types"
)

var compareProfilesCmd = &cobra.Command{
	Use:   "compare-profiles <profile.json> <profile-url>",
	Short: "Compare an extracted Profile with a public profile",
	Long:  "Compare a Profile JSON file (from analyze --out) with a scraped public profile: name consistency and skills overlap.",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompareProfiles,
}

var compareJSON bool

func init() {
	compareProfilesCmd.Flags().BoolVar(&compareJSON, "output-json", false, "print JSON instead of a report")
	rootCmd.AddCommand(compareProfilesCmd)
}

type compareOutput struct {
	Scraped    *types.ScrapedProfile `json:"scraped_profile"`
	Comparison analysis.Comparison   `json:"comparison"`
}

func runCompareProfiles(cmd *cobra.Command, args []string) error {
	profile, err := readProfile(args[0])
	if err != nil {
		return err
	}

	e, err := newEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.close()

	a := analysis.New(nil, analysis.WithFetcher(e.scraper()), analysis.WithLogger(e.log))
	scraped, comparison, err := a.CompareURL(cmd.Context(), profile, args[1])
	if err != nil {
		return err
	}

	if compareJSON {
		return writeJSON(cmd, compareOutput{Scraped: scraped, Comparison: comparison})
	}
	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintScrapedProfile(scraped)
	p.PrintProfileComparison(comparison)
	return nil
}
