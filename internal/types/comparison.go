package types

// ComparisonResult is the outcome of comparing a candidate skill set against a
// required one. Sets are case-folded and sorted; the result is derived and
// never cached.
type ComparisonResult struct {
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	Extra           []string `json:"extra"`
	MatchPercentage float64  `json:"match_percentage"`
}

// Recommendation suggests a skill to add and why.
type Recommendation struct {
	Skill  string `json:"skill"`
	Reason string `json:"reason"`
}

// Suggestion is a resume improvement hint.
type Suggestion struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}
