package skills

import "strings"

// OtherCategory collects skills no named category claims.
const OtherCategory = "Other"

type category struct {
	name   string
	skills set
}

var categories = []category{
	{name: "Programming Languages", skills: newSet([]string{"Python", "Java", "JavaScript", "C++", "C#", "Ruby", "PHP", "Go", "Rust", "Swift"})},
	{name: "Web Technologies", skills: newSet([]string{"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Django", "Flask", "Express"})},
	{name: "Databases", skills: newSet([]string{"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Oracle", "SQLite"})},
	{name: "Cloud & DevOps", skills: newSet([]string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins", "Git", "CI/CD"})},
	{name: "Data Science", skills: newSet([]string{"Machine Learning", "Deep Learning", "Data Analysis", "Pandas", "NumPy", "Scikit-learn", "TensorFlow", "PyTorch"})},
}

// Group is a category and the skills that fell into it.
type Group struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Categorize sorts skills into fixed categories. Groups come back in catalog
// order with Other last, and only non-empty groups are returned. Skills keep
// their input casing and order, trimmed; blank entries are skipped.
func Categorize(skills []string) []Group {
	buckets := make(map[string][]string)
	for _, skill := range skills {
		n := Normalize(skill)
		if n == "" {
			continue
		}
		name := OtherCategory
		for _, c := range categories {
			if c.skills.has(n) {
				name = c.name
				break
			}
		}
		buckets[name] = append(buckets[name], strings.TrimSpace(skill))
	}

	groups := make([]Group, 0, len(buckets))
	for _, c := range categories {
		if found := buckets[c.name]; len(found) > 0 {
			groups = append(groups, Group{Category: c.name, Skills: found})
		}
	}
	if other := buckets[OtherCategory]; len(other) > 0 {
		groups = append(groups, Group{Category: OtherCategory, Skills: other})
	}
	return groups
}
