// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/insights"
	"github.com/jonathan/profile-analyzer/internal/skills"
	"github.com/jonathan/profile-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items as bullets, then a "... and N more" line.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintProfile outputs a human-readable summary of an extracted profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	field := func(label string, value *string) {
		if value != nil {
			fmt.Fprintf(&sb, "%-10s%s\n", label+":", *value)
		}
	}
	field("Name", profile.Name)
	field("Email", profile.Email)
	field("Phone", profile.Phone)
	field("Domain", profile.DomainOfExpertise)

	if len(profile.Skills) > 0 {
		fmt.Fprintf(&sb, "\nSkills (%d):\n", len(profile.Skills))
		writeList(&sb, profile.Skills, maxItemsToShow)
	}
	if profile.Experience != nil {
		fmt.Fprintf(&sb, "\nExperience: %s\n", describeSection(profile.Experience.Kind(), profile.Experience.Len()))
		if entries, ok := profile.Experience.Entries(); ok {
			lines := make([]string, 0, len(entries))
			for _, e := range entries {
				lines = append(lines, joinNonEmpty(" at ", e.Position, e.Company))
			}
			writeList(&sb, lines, 3)
		}
	}
	if profile.Education != nil {
		fmt.Fprintf(&sb, "\nEducation: %s\n", describeSection(profile.Education.Kind(), profile.Education.Len()))
		if entries, ok := profile.Education.Entries(); ok {
			lines := make([]string, 0, len(entries))
			for _, e := range entries {
				lines = append(lines, joinNonEmpty(", ", e.Degree, e.Institution))
			}
			writeList(&sb, lines, 3)
		}
	}
	if len(profile.Projects) > 0 {
		fmt.Fprintf(&sb, "\nProjects (%d):\n", len(profile.Projects))
		names := make([]string, 0, len(profile.Projects))
		for _, proj := range profile.Projects {
			names = append(names, proj.Name)
		}
		writeList(&sb, names, 3)
	}
	if len(profile.Certifications) > 0 {
		fmt.Fprintf(&sb, "\nCertifications (%d):\n", len(profile.Certifications))
		writeList(&sb, profile.Certifications, 3)
	}

	p.printBox("EXTRACTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

func describeSection(kind types.SectionKind, n int) string {
	if kind == types.SectionText {
		return fmt.Sprintf("free text, %d lines", n)
	}
	return fmt.Sprintf("%d entries", n)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "(unnamed)"
	}
	return strings.Join(kept, sep)
}

// PrintScrapedProfile outputs the headline fields of a scraped profile.
func (p *Printer) PrintScrapedProfile(profile *types.ScrapedProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:      %s\n", profile.Name)
	fmt.Fprintf(&sb, "Headline:  %s\n", profile.Headline)
	fmt.Fprintf(&sb, "Location:  %s\n", profile.Location)
	fmt.Fprintf(&sb, "Industry:  %s\n", profile.Industry)
	fmt.Fprintf(&sb, "\nSkills (%d):\n", len(profile.Skills))
	writeList(&sb, profile.Skills, maxItemsToShow)

	p.printBox("PUBLIC PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoleGap outputs a skills gap analysis against a catalog role.
func (p *Printer) PrintRoleGap(gap *skills.RoleGap) {
	if gap == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Role:   %s\n", gap.Role)
	fmt.Fprintf(&sb, "Match:  %.1f%%\n", gap.Comparison.MatchPercentage)
	p.writeComparison(&sb, gap.Comparison)

	if len(gap.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range gap.Recommendations {
			fmt.Fprintf(&sb, "  • %s - %s\n", rec.Skill, rec.Reason)
		}
	}

	p.printBox("SKILLS GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs a comparison against an ad hoc requirement list.
func (p *Printer) PrintComparison(result types.ComparisonResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match:  %.1f%%\n", result.MatchPercentage)
	p.writeComparison(&sb, result)
	p.printBox("SKILLS COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) writeComparison(sb *strings.Builder, result types.ComparisonResult) {
	display := func(in []string) []string {
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = skills.Display(s)
		}
		return out
	}
	if len(result.Matched) > 0 {
		fmt.Fprintf(sb, "\nMatched (%d):\n", len(result.Matched))
		writeList(sb, display(result.Matched), maxItemsToShow)
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(sb, "\nMissing (%d):\n", len(result.Missing))
		writeList(sb, display(result.Missing), maxItemsToShow)
	}
}

// PrintProfileComparison outputs name and skills consistency between a resume
// and a public profile.
func (p *Printer) PrintProfileComparison(c analysis.Comparison) {
	var sb strings.Builder

	switch c.Name {
	case analysis.NameMatchExact:
		sb.WriteString("Names match\n")
	case analysis.NameMatchSimilar:
		sb.WriteString("Names are similar but not identical\n")
	case analysis.NameMatchMismatch:
		fmt.Fprintf(&sb, "Names don't match: %q vs %q\n", c.ResumeName, c.ProfileName)
	default:
		sb.WriteString("Name missing on one side\n")
	}

	if s := c.Skills; s != nil {
		fmt.Fprintf(&sb, "\nSkills consistency: %.1f%%\n", s.Score)
		fmt.Fprintf(&sb, "Common: %d  Resume only: %d  Profile only: %d\n", len(s.Common), len(s.OnlyInFirst), len(s.OnlyInSecond))
		if len(s.AddToSecond) > 0 {
			fmt.Fprintf(&sb, "\nAdd to profile: %s\n", strings.Join(s.AddToSecond, ", "))
		}
		if len(s.AddToFirst) > 0 {
			fmt.Fprintf(&sb, "Add to resume:  %s\n", strings.Join(s.AddToFirst, ", "))
		}
		if s.Aligned {
			sb.WriteString("\nProfiles are well aligned\n")
		} else {
			sb.WriteString("\nLow consistency; consider aligning skills across both\n")
		}
	} else {
		sb.WriteString("\nSkills not listed on both sides\n")
	}

	p.printBox("PROFILE COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs resume improvement hints and trending skill gaps.
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion, trending []insights.TrendingGap) {
	var sb strings.Builder
	if len(suggestions) == 0 {
		sb.WriteString("Resume looks comprehensive\n")
	}
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "• %s\n", s.Message)
	}
	if len(trending) > 0 {
		sb.WriteString("\nTrending skills to consider:\n")
		for _, gap := range trending {
			fmt.Fprintf(&sb, "  %s: %s\n", gap.Category, strings.Join(gap.Consider, ", "))
		}
	}
	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}
