package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/extraction"
	"github.com/jonathan/profile-analyzer/internal/insights"
	"github.com/jonathan/profile-analyzer/internal/observability"
	"github.com/jonathan/profile-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract a structured profile from a resume",
	Long: `Extract a structured profile from a PDF or DOCX resume with one model call.
With --url the public profile is scraped concurrently and compared with the resume.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeURL     string
	analyzeOut     string
	analyzeSummary bool
	analyzeReport  bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "public profile URL to compare with the resume")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write the extracted Profile JSON to this file")
	analyzeCmd.Flags().BoolVar(&analyzeSummary, "summary", false, "also ask the model for a short profile summary")
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false, "print a human-readable report instead of JSON")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOutput is the JSON printed by analyze.
type analyzeOutput struct {
	Analysis    any                    `json:"analysis"`
	Summary     string                 `json:"summary,omitempty"`
	Suggestions []types.Suggestion     `json:"suggestions"`
	Trending    []insights.TrendingGap `json:"trending,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.close()

	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	progress := func(ev analysis.ProgressEvent) {
		e.log.Debug(ev.Message, zap.String("step", string(ev.Step)), zap.Bool("done", ev.Done))
	}
	analyzer, extractor, err := e.analyzer(ctx, progress)
	if err != nil {
		return err
	}

	var (
		profile *types.Profile
		out     analyzeOutput
		compare *analysis.Comparison
		scraped *types.ScrapedProfile
	)
	if analyzeURL != "" {
		result, err := analyzer.AnalyzeWithProfileURL(ctx, doc, analyzeURL)
		if err != nil {
			return explain(err)
		}
		profile, scraped, compare = result.Profile, result.Scraped, &result.Comparison
		out.Analysis = result
	} else {
		result, err := analyzer.AnalyzeDocument(ctx, doc)
		if err != nil {
			return explain(err)
		}
		profile = result.Profile
		out.Analysis = result
	}

	if analyzeSummary {
		summary, err := extractor.Summarize(ctx, profile)
		if err != nil {
			return explain(err)
		}
		out.Summary = summary
	}
	out.Suggestions = insights.Suggest(profile)
	out.Trending = insights.Trending(profile.Skills)

	if analyzeOut != "" {
		if err := writeJSONFile(analyzeOut, profile); err != nil {
			return err
		}
		e.log.Info("profile written", zap.String("path", analyzeOut))
	}

	if !analyzeReport {
		return writeJSON(cmd, out)
	}

	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintProfile(profile)
	if scraped != nil {
		p.PrintScrapedProfile(scraped)
		p.PrintProfileComparison(*compare)
	}
	p.PrintSuggestions(out.Suggestions, out.Trending)
	if out.Summary != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nSummary:\n%s\n", out.Summary)
	}
	return nil
}

// explain adds a hint for the failures a user can act on.
func explain(err error) error {
	var parseErr *extraction.SchemaParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w (the model response could not be read; retrying may help)", err)
	}
	return err
}
