package scraper

import (
	"hash/fnv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// Defaults used when a fetched page is missing a field.
const (
	PageHeadline = "Professional"
	PageLocation = "Location not specified"
)

// Defaults used when nothing was fetched.
const (
	SyntheticHeadline = "Software Engineer | Full Stack Developer | AI Enthusiast"
	SyntheticLocation = "San Francisco, CA"
)

const (
	syntheticIndustry   = "Technology"
	syntheticSummary    = "Passionate professional with experience in software development and technology. Specialized in modern web technologies and always eager to learn new skills. Profile URL: "
	syntheticExperience = "Software Engineer at Tech Company (2022-Present)\n" +
		"- Developed applications using modern technologies\n" +
		"- Collaborated with cross-functional teams\n" +
		"- Implemented best practices and coding standards\n\n" +
		"Software Developer Intern at Startup (2021-2022)\n" +
		"- Built REST APIs and web applications\n" +
		"- Worked on database design and optimization\n" +
		"- Participated in agile development processes"
	syntheticEducation = "Bachelor of Science in Computer Science\nUniversity (2018-2022)\nGPA: 3.8/4.0"
)

// skillVariants is the catalog synthetic skill sets are drawn from.
var skillVariants = [][]string{
	{"Python", "JavaScript", "React", "Node.js", "Machine Learning", "SQL", "Git", "Docker", "AWS", "Agile"},
	{"Java", "Spring Boot", "Microservices", "Kubernetes", "MongoDB", "Redis", "Jenkins", "CI/CD", "REST APIs"},
	{"Data Analysis", "Python", "Pandas", "NumPy", "Scikit-learn", "TensorFlow", "SQL", "Tableau", "Power BI"},
	{"Frontend Development", "React", "Vue.js", "TypeScript", "CSS", "HTML", "Webpack", "Jest", "Redux"},
	{"DevOps", "Docker", "Kubernetes", "AWS", "Azure", "Terraform", "Ansible", "Jenkins", "Linux"},
}

// VariantIndex picks the skill variant for a username: 32-bit FNV-1a of the
// username bytes modulo the catalog size. The result is the same in every
// process.
func VariantIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(skillVariants)))
}

// NameFromUsername title-cases a username with hyphens read as spaces.
func NameFromUsername(username string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(username, "-", " "))
}

// signals holds whatever a page parse recovered. Empty fields were not found.
type signals struct {
	Name     string
	Headline string
	Location string
	Summary  string
}

// synthesize builds the returned record from the parsed signals, filling every
// missing field with synthetic data. partial may be nil when nothing was fetched.
// Skills are exactly the variant's catalog entries. No "LinkedIn Profile" marker
// skill is appended.
func synthesize(target Target, partial *signals) *types.ScrapedProfile {
	if partial == nil {
		partial = &signals{}
	}

	profile := &types.ScrapedProfile{
		Name:       partial.Name,
		Headline:   partial.Headline,
		Location:   partial.Location,
		Industry:   syntheticIndustry,
		Summary:    partial.Summary,
		Experience: syntheticExperience,
		Education:  syntheticEducation,
		Skills:     append([]string(nil), skillVariants[VariantIndex(target.Username)]...),
		ProfileURL: target.URL,
		Username:   target.Username,
	}
	if profile.Name == "" {
		profile.Name = NameFromUsername(target.Username)
	}
	if profile.Headline == "" {
		profile.Headline = SyntheticHeadline
	}
	if profile.Location == "" {
		profile.Location = SyntheticLocation
	}
	if profile.Summary == "" {
		profile.Summary = syntheticSummary + target.URL
	}
	return profile
}
