package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/types"
)

func TestCompareNames(t *testing.T) {
	tests := []struct {
		a, b string
		want NameMatch
	}{
		{"Jane Doe", "jane doe", NameMatchExact},
		{"Jane  Doe ", "JANE DOE", NameMatchExact},
		{"Jane Doe", "Jane Doe, PhD", NameMatchSimilar},
		{"Jane", "Jane Doe", NameMatchSimilar},
		{"Jane Doe", "John Smith", NameMatchMismatch},
		{"", "Jane Doe", NameMatchUnknown},
		{"Jane Doe", "   ", NameMatchUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareNames(tt.a, tt.b))
			assert.Equal(t, tt.want, CompareNames(tt.b, tt.a))
		})
	}
}

func TestCompareWithProfile(t *testing.T) {
	resume := &types.Profile{
		Name:   types.StringPtr("Jane Doe"),
		Skills: []string{"Python", "SQL", "Rust"},
	}
	scraped := &types.ScrapedProfile{
		Name:   "Jane Doe",
		Skills: []string{"python", "sql", "Docker", "AWS"},
	}

	got := CompareWithProfile(resume, scraped)
	assert.Equal(t, "Jane Doe", got.ResumeName)
	assert.Equal(t, NameMatchExact, got.Name)
	require.NotNil(t, got.Skills)
	assert.Equal(t, []string{"python", "sql"}, got.Skills.Common)
	assert.Equal(t, []string{"rust"}, got.Skills.OnlyInFirst)
	assert.Equal(t, []string{"aws", "docker"}, got.Skills.OnlyInSecond)
	assert.InDelta(t, 40.0, got.Skills.Score, 1e-9)
	assert.False(t, got.Skills.Aligned)
}

func TestCompareWithProfile_MissingSkills(t *testing.T) {
	got := CompareWithProfile(&types.Profile{}, &types.ScrapedProfile{Name: "Jane", Skills: []string{"Go"}})
	assert.Nil(t, got.Skills)
	assert.Equal(t, NameMatchUnknown, got.Name)

	got = CompareWithProfile(nil, nil)
	assert.Nil(t, got.Skills)
	assert.Equal(t, NameMatchUnknown, got.Name)
}
