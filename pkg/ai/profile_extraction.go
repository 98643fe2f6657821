package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

const profileExtractionPrompt = `You are a data extraction assistant. Extract relevant profile information from the user's message.

Return ONLY information that is clearly stated or strongly implied. If information is ambiguous or not present, return null for that field.

Return in this exact JSON format:
{
    "role": "manager" or "engineer" or "specialist" or other role (or null),
    "experience_months": number or null,
    "team_size": number or null,
    "industry": "tech" or "healthcare" or other industry (or null),
    "primary_challenges": [list of specific challenges mentioned],
    "learning_goals": [list of specific goals mentioned],
    "time_available_hours_per_week": number or null,
    "emotional_state": "stressed" or "confident" or "overwhelmed" or other emotion (or null),
    "urgency": "high" or "medium" or "low" (or null)
}

Be conservative - only extract what you're confident about.`

const extractionMaxTokens = 1024

// ExtractProfile asks the completion service for the profile fields stated in message.
// The result is a delta to merge, absent fields are nil or empty. Any failure yields an
// empty delta.
func (a *Advisor) ExtractProfile(ctx context.Context, logger *log.Entry, message string, current intakev1.Profile) intakev1.Profile {
	if !a.Available() {
		return intakev1.NewProfile()
	}

	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		recordFallback(logger, componentExtraction, err)
		return intakev1.NewProfile()
	}
	userPrompt := fmt.Sprintf("Current profile state:\n%s\n\nUser's message:\n\"%s\"\n\nExtract any new or updated information from this message.",
		currentJSON, message)

	start := time.Now()
	reply, err := a.llm.Chat(ctx, profileExtractionPrompt, userPrompt, WithMaxTokens(extractionMaxTokens))
	a.recordCall(componentExtraction, err)
	if err != nil {
		recordFallback(logger, componentExtraction, err)
		return intakev1.NewProfile()
	}
	logger.Debugf("extraction complete in %+v", time.Since(start))

	result, err := ParseJSONReply(reply)
	if err != nil {
		recordFallback(logger, componentExtraction, err)
		return intakev1.NewProfile()
	}
	return ProfileFromJSON(result)
}

// ProfileFromJSON reads a profile leniently: wrongly typed values are treated as absent.
func ProfileFromJSON(r gjson.Result) intakev1.Profile {
	return intakev1.Profile{
		Role:                      stringField(r, intakev1.FieldRole),
		ExperienceMonths:          intField(r, intakev1.FieldExperienceMonths),
		TeamSize:                  intField(r, intakev1.FieldTeamSize),
		Industry:                  stringField(r, intakev1.FieldIndustry),
		PrimaryChallenges:         listField(r, intakev1.FieldPrimaryChallenges),
		LearningGoals:             listField(r, intakev1.FieldLearningGoals),
		TimeAvailableHoursPerWeek: intField(r, intakev1.FieldTimeAvailableHoursPerWeek),
		EmotionalState:            stringField(r, intakev1.FieldEmotionalState),
		Urgency:                   stringField(r, intakev1.FieldUrgency),
	}
}
