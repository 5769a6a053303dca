// Package insights produces resume improvement hints from an extracted Profile.
package insights

import (
	"github.com/jonathan/profile-analyzer/internal/skills"
	"github.com/jonathan/profile-analyzer/internal/types"
)

const (
	// minSkills is the skill count below which a resume is told to expand its skills.
	minSkills = 5
	// minExperience is the experience entry count below which more experience is suggested.
	minExperience = 2
	// maxTrendingPerCategory caps the skills suggested per trending category.
	maxTrendingPerCategory = 3
)

// Suggestion categories.
const (
	CategorySections   = "sections"
	CategorySkills     = "skills"
	CategoryExperience = "experience"
)

// Suggest inspects a profile for missing sections and thin content. It never
// fails; a nil profile is treated as empty.
func Suggest(profile *types.Profile) []types.Suggestion {
	if profile == nil {
		profile = &types.Profile{}
	}

	var out []types.Suggestion
	add := func(category, message string) {
		out = append(out, types.Suggestion{Category: category, Message: message})
	}

	if len(profile.Skills) == 0 {
		add(CategorySections, "Add a Skills section to highlight your technical and soft skills")
	}
	if len(profile.Projects) == 0 {
		add(CategorySections, "Include Projects to showcase your practical experience and achievements")
	}
	if len(profile.Certifications) == 0 {
		add(CategorySections, "Add Certifications to demonstrate your commitment to continuous learning")
	}

	if n := len(profile.Skills); n > 0 && n < minSkills {
		add(CategorySkills, "Consider adding more relevant skills to make your profile stronger")
	}
	if n := experienceCount(profile.Experience); n > 0 && n < minExperience {
		add(CategoryExperience, "Include internships, volunteer work, or freelance projects to add more experience")
	}

	if out == nil {
		out = []types.Suggestion{}
	}
	return out
}

// experienceCount counts structured entries. A non-empty free-text section
// counts as a single block since its entry boundaries are unknown.
func experienceCount(section *types.Section[types.ExperienceEntry]) int {
	if section == nil {
		return 0
	}
	if entries, ok := section.Entries(); ok {
		return len(entries)
	}
	if section.Len() > 0 {
		return 1
	}
	return 0
}

// FormatTips are general layout advice that applies to every resume.
var FormatTips = []string{
	"Use bullet points for better readability",
	"Quantify achievements with numbers and percentages",
	"Use action verbs to start bullet points",
	"Keep consistent formatting throughout",
	"Include relevant keywords for ATS systems",
	"Limit resume to 1-2 pages",
	"Use professional fonts (Arial, Calibri, Times New Roman)",
}

// TrendingGap lists popular skills in one category that a profile lacks.
type TrendingGap struct {
	Category string   `json:"category"`
	Consider []string `json:"consider"`
}

var trending = []struct {
	category string
	skills   []string
}{
	{"Programming", []string{"Python", "JavaScript", "Java", "C++", "Go", "Rust"}},
	{"Web Development", []string{"React", "Angular", "Vue.js", "Node.js", "Django", "Flask"}},
	{"Data Science", []string{"Machine Learning", "Deep Learning", "Data Analysis", "Pandas", "NumPy", "TensorFlow"}},
	{"Cloud & DevOps", []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins"}},
	{"Databases", []string{"SQL", "MongoDB", "PostgreSQL", "Redis", "Oracle"}},
}

// Trending suggests up to three popular skills per category that the
// candidate does not list yet, in catalog order. It returns nothing when
// the candidate lists no skills at all.
func Trending(candidate []string) []TrendingGap {
	gaps := []TrendingGap{}
	if len(candidate) == 0 {
		return gaps
	}

	for _, t := range trending {
		missing := skills.Compare(candidate, t.skills).Missing
		if len(missing) == 0 {
			continue
		}
		// Missing is folded and sorted; report catalog spelling in catalog order.
		lacking := make(map[string]bool, len(missing))
		for _, m := range missing {
			lacking[m] = true
		}
		consider := make([]string, 0, maxTrendingPerCategory)
		for _, s := range t.skills {
			if len(consider) == maxTrendingPerCategory {
				break
			}
			if lacking[skills.Normalize(s)] {
				consider = append(consider, s)
			}
		}
		gaps = append(gaps, TrendingGap{Category: t.category, Consider: consider})
	}
	return gaps
}
