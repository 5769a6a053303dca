package analysis

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jonathan/profile-analyzer/internal/skills"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// NameMatch grades how well two names for the same person agree.
type NameMatch string

const (
	// NameMatchExact means the names are equal ignoring case and spacing
	NameMatchExact NameMatch = "match"
	// NameMatchSimilar means one name contains the other
	NameMatchSimilar NameMatch = "similar"
	// NameMatchMismatch means neither name contains the other
	NameMatchMismatch NameMatch = "mismatch"
	// NameMatchUnknown means at least one side has no name
	NameMatchUnknown NameMatch = "unknown"
)

// CompareNames grades two names case-insensitively.
func CompareNames(a, b string) NameMatch {
	a, b = foldName(a), foldName(b)
	switch {
	case a == "" || b == "":
		return NameMatchUnknown
	case a == b:
		return NameMatchExact
	case strings.Contains(a, b) || strings.Contains(b, a):
		return NameMatchSimilar
	default:
		return NameMatchMismatch
	}
}

func foldName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// Comparison checks a resume Profile against a scraped public profile.
type Comparison struct {
	ResumeName  string    `json:"resume_name"`
	ProfileName string    `json:"profile_name"`
	Name        NameMatch `json:"name_consistency"`
	// Skills is nil unless both sides list at least one skill.
	Skills *skills.Consistency `json:"skills,omitempty"`
}

// CompareWithProfile compares a resume against a scraped profile. The resume
// is the first side of the skills comparison.
func CompareWithProfile(resume *types.Profile, scraped *types.ScrapedProfile) Comparison {
	var c Comparison
	var resumeSkills, profileSkills []string
	if resume != nil {
		c.ResumeName = types.StringValue(resume.Name)
		resumeSkills = resume.Skills
	}
	if scraped != nil {
		c.ProfileName = scraped.Name
		profileSkills = scraped.Skills
	}
	c.Name = CompareNames(c.ResumeName, c.ProfileName)

	if len(resumeSkills) > 0 && len(profileSkills) > 0 {
		consistency := skills.CompareProfiles(resumeSkills, profileSkills)
		c.Skills = &consistency
	}
	return c
}
