package skills

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// maxRecommendations caps how many missing skills are turned into advice.
const maxRecommendations = 3

// Role is a named target role and the skills it requires.
type Role struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

var catalog = []Role{
	{Name: "Software Engineer", Skills: []string{"Python", "JavaScript", "SQL", "Git", "Docker"}},
	{Name: "Data Scientist", Skills: []string{"Python", "Machine Learning", "SQL", "Pandas", "NumPy"}},
	{Name: "Frontend Developer", Skills: []string{"JavaScript", "React", "HTML", "CSS", "Git"}},
	{Name: "DevOps Engineer", Skills: []string{"Docker", "Kubernetes", "AWS", "Jenkins", "Linux"}},
}

// UnknownRoleError is returned when a role name is not in the catalog.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q (known roles: %s)", e.Role, strings.Join(RoleNames(), ", "))
}

// Roles returns a copy of the role catalog in display order.
func Roles() []Role {
	out := make([]Role, len(catalog))
	for i, r := range catalog {
		out[i] = Role{Name: r.Name, Skills: append([]string(nil), r.Skills...)}
	}
	return out
}

// RoleNames returns the catalog's role names in display order.
func RoleNames() []string {
	names := make([]string, len(catalog))
	for i, r := range catalog {
		names[i] = r.Name
	}
	return names
}

// LookupRole finds a role by name, ignoring case and surrounding space.
func LookupRole(name string) (Role, bool) {
	key := Normalize(name)
	for _, r := range catalog {
		if Normalize(r.Name) == key {
			return Role{Name: r.Name, Skills: append([]string(nil), r.Skills...)}, true
		}
	}
	return Role{}, false
}

// RoleGap is a candidate's comparison against one catalog role.
type RoleGap struct {
	Role            string                 `json:"role"`
	Comparison      types.ComparisonResult `json:"comparison"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

// AnalyzeRole compares candidate skills against the named role.
func AnalyzeRole(candidate []string, roleName string) (*RoleGap, error) {
	role, ok := LookupRole(roleName)
	if !ok {
		return nil, &UnknownRoleError{Role: roleName}
	}

	result := Compare(candidate, role.Skills)
	return &RoleGap{
		Role:            role.Name,
		Comparison:      result,
		Recommendations: Recommend(result, role.Name),
	}, nil
}

// Recommend turns the first few missing skills into title-cased advice for
// the given role. Missing is already sorted, so the choice is stable.
func Recommend(result types.ComparisonResult, roleName string) []types.Recommendation {
	n := min(len(result.Missing), maxRecommendations)
	recs := make([]types.Recommendation, 0, n)
	for _, skill := range result.Missing[:n] {
		recs = append(recs, types.Recommendation{
			Skill:  Display(skill),
			Reason: fmt.Sprintf("Essential for %s roles", roleName),
		})
	}
	return recs
}

// Display title-cases a normalized skill name for presentation.
func Display(skill string) string {
	return cases.Title(language.English).String(skill)
}
