package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestProfileMerge(t *testing.T) {
	p := NewProfile()
	p.Role = strPtr("engineer")
	p.ExperienceMonths = intPtr(12)
	p.PrimaryChallenges = []string{"delegation"}

	p.Merge(Profile{
		Role:              nil,
		ExperienceMonths:  intPtr(18),
		Industry:          strPtr("healthcare"),
		PrimaryChallenges: []string{"time management", "delegation"},
		LearningGoals:     []string{"leadership"},
	})

	assert.Equal(t, "engineer", *p.Role, "nil scalar must not overwrite")
	assert.Equal(t, 18, *p.ExperienceMonths)
	assert.Equal(t, "healthcare", *p.Industry)
	assert.Equal(t, []string{"delegation", "time management"}, p.PrimaryChallenges)
	assert.Equal(t, []string{"leadership"}, p.LearningGoals)
}

func TestProfileMergeListsNeverShrink(t *testing.T) {
	p := NewProfile()
	deltas := []Profile{
		{PrimaryChallenges: []string{"a", "b"}},
		{PrimaryChallenges: []string{}},
		{PrimaryChallenges: []string{"b"}, LearningGoals: []string{"x"}},
		{},
		{PrimaryChallenges: []string{"c"}, LearningGoals: []string{"x", "y"}},
	}

	prevChallenges, prevGoals := 0, 0
	for _, d := range deltas {
		p.Merge(d)
		assert.GreaterOrEqual(t, len(p.PrimaryChallenges), prevChallenges)
		assert.GreaterOrEqual(t, len(p.LearningGoals), prevGoals)
		prevChallenges, prevGoals = len(p.PrimaryChallenges), len(p.LearningGoals)
	}
	assert.Equal(t, []string{"a", "b", "c"}, p.PrimaryChallenges)
	assert.Equal(t, []string{"x", "y"}, p.LearningGoals)
}

func TestProfileMergeDoesNotAliasDelta(t *testing.T) {
	p := NewProfile()
	role := "manager"
	p.Merge(Profile{Role: &role})
	role = "changed"
	assert.Equal(t, "manager", *p.Role)
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected int
		missing  []string
	}{
		{
			name:     "empty",
			profile:  NewProfile(),
			expected: 0,
			missing:  []string{FieldRole, FieldExperienceMonths, FieldPrimaryChallenges, FieldLearningGoals},
		},
		{
			name: "role and experience with empty lists",
			profile: Profile{
				Role:              strPtr("manager"),
				ExperienceMonths:  intPtr(6),
				PrimaryChallenges: []string{},
				LearningGoals:     []string{},
			},
			expected: 50,
			missing:  []string{FieldPrimaryChallenges, FieldLearningGoals},
		},
		{
			name: "zero months counts as known",
			profile: Profile{
				Role:              strPtr("student"),
				ExperienceMonths:  intPtr(0),
				PrimaryChallenges: []string{"where to start"},
			},
			expected: 75,
			missing:  []string{FieldLearningGoals},
		},
		{
			name: "empty role string is missing",
			profile: Profile{
				Role:          strPtr(""),
				LearningGoals: []string{"x"},
			},
			expected: 25,
			missing:  []string{FieldRole, FieldExperienceMonths, FieldPrimaryChallenges},
		},
		{
			name: "optional fields do not count",
			profile: Profile{
				TeamSize:       intPtr(4),
				Industry:       strPtr("tech"),
				EmotionalState: strPtr("stressed"),
			},
			expected: 0,
			missing:  []string{FieldRole, FieldExperienceMonths, FieldPrimaryChallenges, FieldLearningGoals},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.profile.CompletionPercentage())
			_, missing := tc.profile.RequiredFieldStatus()
			assert.Equal(t, tc.missing, missing)
		})
	}
}
