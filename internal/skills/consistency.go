package skills

// AlignedThreshold is the consistency score at or above which two profiles
// count as aligned.
const AlignedThreshold = 70.0

// Consistency compares the skills listed on two profiles of the same person.
//
// Unlike Compare, neither side is a requirement: Score is the share of the
// union that both sides list, |Common| / |First ∪ Second| * 100.
type Consistency struct {
	Common       []string `json:"common"`
	OnlyInFirst  []string `json:"only_in_first"`
	OnlyInSecond []string `json:"only_in_second"`
	Score        float64  `json:"consistency_score"`
	Aligned      bool     `json:"aligned"`
	// AddToSecond lists first-only skills worth copying to the second profile.
	AddToSecond []string `json:"add_to_second"`
	// AddToFirst lists second-only skills worth copying to the first profile.
	AddToFirst []string `json:"add_to_first"`
}

// CompareProfiles measures how consistently two profiles list skills.
// An empty union scores 0 and is not aligned.
func CompareProfiles(first, second []string) Consistency {
	a := newSet(first)
	b := newSet(second)

	common := a.intersect(b)
	onlyFirst := a.minus(b)
	onlySecond := b.minus(a)
	score := percentage(len(common), a.union(b))

	return Consistency{
		Common:       common,
		OnlyInFirst:  onlyFirst,
		OnlyInSecond: onlySecond,
		Score:        score,
		Aligned:      a.union(b) > 0 && score >= AlignedThreshold,
		AddToSecond:  onlyFirst[:min(len(onlyFirst), maxRecommendations)],
		AddToFirst:   onlySecond[:min(len(onlySecond), maxRecommendations)],
	}
}
