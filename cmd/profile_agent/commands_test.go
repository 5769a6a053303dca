package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/documents"
	"github.com/jonathan/profile-analyzer/internal/server"
	"github.com/jonathan/profile-analyzer/internal/types"
)

func TestRolesCommand(t *testing.T) {
	out, _, err := executeCommand(t, "roles")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, out, "DevOps Engineer")
	assert.Contains(t, out, "Docker, Kubernetes, AWS, Jenkins, Linux")
}

func TestExtractTextCommand(t *testing.T) {
	out, _, err := executeCommand(t, "extract-text", docxFile(t, "Jane Doe", "Skills: Go, Rust"))
	require.NoError(t, err)
	assert.Contains(t, out, "Skills: Go, Rust")
}

func TestExtractTextCommand_Unsupported(t *testing.T) {
	_, _, err := executeCommand(t, "extract-text", writeFile(t, "resume.txt", []byte("Jane")))
	require.Error(t, err)

	var unsupported *documents.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestExtractTextCommand_MissingArg(t *testing.T) {
	_, _, err := executeCommand(t, "extract-text")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	valid := writeFile(t, "profile.json", []byte(`{"Name":"Jane Doe","Skills":["Go"]}`))
	out, _, err := executeCommand(t, "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	invalid := writeFile(t, "bad.json", []byte(`{"Name":true}`))
	_, stderr, err := executeCommand(t, "validate", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match the schema")
	assert.Contains(t, stderr, "Name")
}

func TestSkillsGapCommand_Role(t *testing.T) {
	out, _, err := executeCommand(t, "skills-gap", "--skills", "Docker, AWS", "--role", "devops engineer")
	require.NoError(t, err)
	assert.Contains(t, out, "SKILLS GAP ANALYSIS")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "Jenkins - Essential for DevOps Engineer roles")
}

func TestSkillsGapCommand_RequiredJSON(t *testing.T) {
	out, _, err := executeCommand(t, "skills-gap", "--skills", "Python,SQL", "--required", "python,Git", "--output-json")
	require.NoError(t, err)

	var result types.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"python"}, result.Matched)
	assert.InDelta(t, 50.0, result.MatchPercentage, 1e-9)
}

func TestSkillsGapCommand_ProfileFile(t *testing.T) {
	profile := writeFile(t, "profile.json", []byte(`{"Name":"Jane","Skills":"Python, JavaScript, SQL"}`))
	out, _, err := executeCommand(t, "skills-gap", "--profile", profile, "--role", "Software Engineer", "--output-json")
	require.NoError(t, err)
	assert.Contains(t, out, `"match_percentage": 60`)
}

func TestSkillsGapCommand_InteractiveRole(t *testing.T) {
	orig := selectRole
	t.Cleanup(func() { selectRole = orig })
	selectRole = func() (string, error) { return "Data Scientist", nil }

	out, _, err := executeCommand(t, "skills-gap", "--skills", "Python")
	require.NoError(t, err)
	assert.Contains(t, out, "Data Scientist")
}

func TestSkillsGapCommand_Errors(t *testing.T) {
	_, _, err := executeCommand(t, "skills-gap", "--role", "Data Scientist")
	assert.EqualError(t, err, "provide --skills or --profile")

	_, _, err = executeCommand(t, "skills-gap", "--skills", "Go", "--role", "Astronaut")
	assert.ErrorContains(t, err, "Astronaut")
}

func TestScrapeCommand_InvalidURL(t *testing.T) {
	_, _, err := executeCommand(t, "scrape", "https://example.com/foo")
	var urlErr *analysis.InvalidProfileURLError
	assert.ErrorAs(t, err, &urlErr)
}

func TestAnalyzeCommand_RequiresAPIKey(t *testing.T) {
	_, _, err := executeCommand(t, "analyze", docxFile(t, "Jane Doe"))
	assert.ErrorContains(t, err, "API key is required")
}

func TestTokenCommand(t *testing.T) {
	_, _, err := executeCommand(t, "token", "--subject", "cli")
	assert.ErrorContains(t, err, "jwt-secret is not set")

	const secret = "token-command-secret-value"
	isolateEnv(t)
	t.Setenv("JWT_SECRET", secret)
	resetFlags(rootCmd)
	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--subject", "cli", "--ttl", "2h"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	claims, err := server.NewJWTService(secret, time.Hour).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "cli", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, splitSkills(" Go, Rust,,SQL , "))
	assert.Nil(t, splitSkills(""))
}

func TestReadProfile(t *testing.T) {
	path := writeFile(t, "profile.json", []byte(`{"Name":"Jane Doe","Skills":["Go"]}`))
	profile, err := readProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", types.StringValue(profile.Name))

	_, err = readProfile(writeFile(t, "bad.json", []byte("{")))
	assert.Error(t, err)
}
