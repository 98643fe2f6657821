package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

func TestExtractProfile(t *testing.T) {
	tests := []struct {
		name     string
		llm      Completer
		expected intakev1.Profile
	}{
		{
			name: "full reply",
			llm: &fakeCompleter{reply: `{
				"role": "manager",
				"experience_months": 6,
				"team_size": 8,
				"industry": "tech",
				"primary_challenges": ["delegation", "time management"],
				"learning_goals": ["leadership"],
				"time_available_hours_per_week": 3,
				"emotional_state": "stressed",
				"urgency": "high"
			}`},
			expected: intakev1.Profile{
				Role:                      strPtr("manager"),
				ExperienceMonths:          intPtr(6),
				TeamSize:                  intPtr(8),
				Industry:                  strPtr("tech"),
				PrimaryChallenges:         []string{"delegation", "time management"},
				LearningGoals:             []string{"leadership"},
				TimeAvailableHoursPerWeek: intPtr(3),
				EmotionalState:            strPtr("stressed"),
				Urgency:                   strPtr("high"),
			},
		},
		{
			name: "nulls and missing fields stay absent",
			llm:  &fakeCompleter{reply: "```json\n{\"role\": null, \"experience_months\": 24, \"primary_challenges\": []}\n```"},
			expected: intakev1.Profile{
				ExperienceMonths:  intPtr(24),
				PrimaryChallenges: []string{},
				LearningGoals:     []string{},
			},
		},
		{
			name: "wrongly typed values are ignored",
			llm:  &fakeCompleter{reply: `{"role": 3, "experience_months": "about a year", "team_size": "5", "learning_goals": "public speaking", "urgency": "null"}`},
			expected: intakev1.Profile{
				TeamSize:          intPtr(5),
				PrimaryChallenges: []string{},
				LearningGoals:     []string{"public speaking"},
			},
		},
		{
			name:     "service error gives an empty delta",
			llm:      &fakeCompleter{err: errors.New("timeout")},
			expected: intakev1.NewProfile(),
		},
		{
			name:     "malformed reply gives an empty delta",
			llm:      &fakeCompleter{reply: "The user is a manager."},
			expected: intakev1.NewProfile(),
		},
		{
			name:     "no service gives an empty delta",
			expected: intakev1.NewProfile(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			delta := NewAdvisor(tc.llm).ExtractProfile(context.TODO(), testLogger(), "some message", intakev1.NewProfile())
			assert.Equal(t, tc.expected, delta)
		})
	}
}

func TestExtractProfilePrompt(t *testing.T) {
	llm := &fakeCompleter{reply: "{}"}
	current := intakev1.NewProfile()
	current.Role = strPtr("engineer")

	delta := NewAdvisor(llm).ExtractProfile(context.TODO(), testLogger(), "I have 5 years of experience", current)

	assert.True(t, delta.IsEmpty())
	assert.Equal(t, int64(extractionMaxTokens), llm.options.MaxTokens)
	assert.Nil(t, llm.options.Temperature)
	assert.Equal(t, profileExtractionPrompt, llm.instructions)
	assert.Contains(t, llm.data, `"role": "engineer"`)
	assert.Contains(t, llm.data, "User's message:\n\"I have 5 years of experience\"")
}
