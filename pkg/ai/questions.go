package ai

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

const (
	// NoServiceQuestion is asked when no completion service is configured.
	NoServiceQuestion = "Could you tell me more about your background and what you're looking for?"
	// FallbackQuestion is asked when the completion call fails.
	FallbackQuestion = "Could you tell me a bit more about what you're looking for?"

	questionHistoryLength = 6
	questionMaxTokens     = 300
	questionTemperature   = 0.7
	questionUserPrompt    = "Generate your next message to the user."
)

const questionPromptTemplate = `You are Videa, a warm and empathetic training advisor for a professional training company.

CONVERSATION CONTEXT:
%s

PROFILE INFORMATION COLLECTED SO FAR:
%s

STILL NEED TO LEARN ABOUT:
%s

CONVERSATION RULES:
1. Be warm, empathetic, and conversational
2. Ask ONE question at a time
3. Don't ask about information you already know
4. Match the emotional tone of the user
5. If user seems stressed, acknowledge it before asking
6. Keep questions brief and natural
7. After %d exchanges, we need to wrap up soon

YOUR TASK:
Generate your next message to the user. Either:
- Ask about the next missing field naturally, OR
- If exchange count > 8, gently suggest moving to recommendations

Keep it conversational and human.`

// NextQuestion produces the assistant's next message while the profile is still being
// collected.
func (a *Advisor) NextQuestion(ctx context.Context, logger *log.Entry, state *intakev1.ConversationState) string {
	if !a.Available() {
		recordFallback(logger, componentQuestion, nil)
		return NoServiceQuestion
	}

	reply, err := a.llm.Chat(ctx, QuestionPrompt(state), questionUserPrompt,
		WithMaxTokens(questionMaxTokens), WithTemperature(questionTemperature))
	a.recordCall(componentQuestion, err)
	if err == nil {
		reply = strings.TrimSpace(reply)
	}
	if err != nil || reply == "" {
		recordFallback(logger, componentQuestion, err)
		return FallbackQuestion
	}
	return reply
}

// QuestionPrompt renders the system instruction for the question generator.
func QuestionPrompt(state *intakev1.ConversationState) string {
	history := make([]string, 0, questionHistoryLength)
	for _, msg := range state.LastMessages(questionHistoryLength) {
		history = append(history, fmt.Sprintf("%s: %s", strings.ToUpper(msg.Role), msg.Content))
	}

	summary := ProfileSummary(state.Profile)
	if summary == "" {
		summary = "(Nothing collected yet)"
	}

	missing := "None - all information collected!"
	if len(state.MissingFields) > 0 {
		missing = strings.Join(state.MissingFields, ", ")
	}

	return fmt.Sprintf(questionPromptTemplate, strings.Join(history, "\n"), summary, missing, state.ExchangeCount)
}

// ProfileSummary lists the known profile fields as "- field: value" lines.
func ProfileSummary(p intakev1.Profile) string {
	var lines []string
	for _, field := range intakev1.ProfileFields {
		if !p.Has(field) {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", field, fieldValue(p, field)))
	}
	return strings.Join(lines, "\n")
}

func fieldValue(p intakev1.Profile, field string) string {
	switch field {
	case intakev1.FieldRole:
		return *p.Role
	case intakev1.FieldExperienceMonths:
		return strconv.Itoa(*p.ExperienceMonths)
	case intakev1.FieldTeamSize:
		return strconv.Itoa(*p.TeamSize)
	case intakev1.FieldIndustry:
		return *p.Industry
	case intakev1.FieldPrimaryChallenges:
		return strings.Join(p.PrimaryChallenges, ", ")
	case intakev1.FieldLearningGoals:
		return strings.Join(p.LearningGoals, ", ")
	case intakev1.FieldTimeAvailableHoursPerWeek:
		return strconv.Itoa(*p.TimeAvailableHoursPerWeek)
	case intakev1.FieldEmotionalState:
		return *p.EmotionalState
	case intakev1.FieldUrgency:
		return *p.Urgency
	}
	return ""
}
