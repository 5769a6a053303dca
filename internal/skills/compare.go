// Package skills compares skill sets: candidate against a requirement set,
// candidate against a named role, and one profile against another.
package skills

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// Compare measures how much of required the candidate skills cover.
//
// Both inputs are normalized and deduplicated first, so the result carries
// folded names in sorted order rather than the caller's casing. Matched is
// the intersection, Missing is required minus candidate, Extra is candidate
// minus required. MatchPercentage is |Matched| / |required| * 100, or 0 when
// required has no non-blank names.
func Compare(candidate, required []string) types.ComparisonResult {
	have := newSet(candidate)
	want := newSet(required)

	matched := have.intersect(want)
	return types.ComparisonResult{
		Matched:         matched,
		Missing:         want.minus(have),
		Extra:           have.minus(want),
		MatchPercentage: percentage(len(matched), len(want)),
	}
}

// Normalize trims and case-folds a skill name. All comparisons in this
// package operate on normalized names.
func Normalize(skill string) string {
	return cases.Fold().String(strings.TrimSpace(skill))
}

// set is a normalized skill set. Blank names are dropped.
type set map[string]struct{}

func newSet(skills []string) set {
	s := make(set, len(skills))
	for _, skill := range skills {
		if n := Normalize(skill); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

func (s set) has(skill string) bool {
	_, ok := s[skill]
	return ok
}

// minus returns the sorted members of s that are not in other.
func (s set) minus(other set) []string {
	out := make([]string, 0, len(s))
	for skill := range s {
		if !other.has(skill) {
			out = append(out, skill)
		}
	}
	sort.Strings(out)
	return out
}

// intersect returns the sorted members common to s and other.
func (s set) intersect(other set) []string {
	out := make([]string, 0, min(len(s), len(other)))
	for skill := range s {
		if other.has(skill) {
			out = append(out, skill)
		}
	}
	sort.Strings(out)
	return out
}

func (s set) union(other set) int {
	n := len(s)
	for skill := range other {
		if !s.has(skill) {
			n++
		}
	}
	return n
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
