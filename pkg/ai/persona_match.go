package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

const personaMatchPrompt = `You are an expert at matching user profiles to learning personas.

Given a user profile and available personas, determine the best match and explain why.

Return in this JSON format:
{
    "matched_persona_id": "persona_001",
    "confidence_score": 85,
    "reasoning": "Brief explanation of why this persona matches"
}`

const personaMatchMaxTokens = 500

// MatchPersona picks the persona that best fits the profile. Without a completion service,
// or when the call fails or the reply is unusable, RuleBasedMatch decides.
func (a *Advisor) MatchPersona(ctx context.Context, logger *log.Entry, profile intakev1.Profile, personas []intakev1.Persona) intakev1.PersonaMatch {
	if !a.Available() {
		recordFallback(logger, componentMatch, nil)
		return RuleBasedMatch(profile)
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		recordFallback(logger, componentMatch, err)
		return RuleBasedMatch(profile)
	}
	userPrompt := fmt.Sprintf("User Profile:\n%s\n\nAvailable Personas:\n%s\n\nDetermine the best matching persona.",
		profileJSON, personaSummaries(personas))

	reply, err := a.llm.Chat(ctx, personaMatchPrompt, userPrompt, WithMaxTokens(personaMatchMaxTokens))
	a.recordCall(componentMatch, err)
	if err != nil {
		recordFallback(logger, componentMatch, err)
		return RuleBasedMatch(profile)
	}

	match, err := parsePersonaMatch(reply, personas)
	if err != nil {
		recordFallback(logger, componentMatch, err)
		return RuleBasedMatch(profile)
	}
	logger.WithFields(log.Fields{
		"persona":    match.MatchedPersonaID,
		"confidence": match.ConfidenceScore,
	}).Info("persona matched by model")
	return match
}

func personaSummaries(personas []intakev1.Persona) string {
	summaries := make([]string, 0, len(personas))
	for _, p := range personas {
		summaries = append(summaries, fmt.Sprintf("Persona ID: %s\nName: %s\nDescription: %s", p.PersonaID, p.Name, p.Description))
	}
	return strings.Join(summaries, "\n\n")
}

// parsePersonaMatch rejects replies naming a persona we do not have, those are as unusable
// as malformed JSON. Confidence is clamped to 0-100.
func parsePersonaMatch(reply string, personas []intakev1.Persona) (intakev1.PersonaMatch, error) {
	result, err := ParseJSONReply(reply)
	if err != nil {
		return intakev1.PersonaMatch{}, err
	}

	id := result.Get("matched_persona_id")
	if id.Type != gjson.String {
		return intakev1.PersonaMatch{}, fmt.Errorf("reply has no matched_persona_id")
	}
	personaID := strings.TrimSpace(id.String())
	known := false
	for _, p := range personas {
		if p.PersonaID == personaID {
			known = true
			break
		}
	}
	if !known {
		return intakev1.PersonaMatch{}, fmt.Errorf("reply names unknown persona %q", personaID)
	}

	confidence := 0
	if c := intField(result, "confidence_score"); c != nil {
		confidence = *c
	}
	confidence = max(0, min(100, confidence))

	return intakev1.PersonaMatch{
		MatchedPersonaID: personaID,
		ConfidenceScore:  confidence,
		Reasoning:        strings.TrimSpace(result.Get("reasoning").String()),
		Source:           intakev1.MatchSourceModel,
	}, nil
}

// matchRule fires when the role contains one of roleTerms (any role when empty) and
// applies, an extra condition on experience in months, is nil or true.
type matchRule struct {
	roleTerms  []string
	applies    func(months int) bool
	personaID  string
	confidence int
	reasoning  string
}

// matchRules are evaluated in order, the first hit wins.
var matchRules = []matchRule{
	{
		roleTerms:  []string{"manager", "team lead", "supervisor"},
		applies:    func(months int) bool { return months < 24 },
		personaID:  "persona_001",
		confidence: 75,
		reasoning:  "New manager with limited experience",
	},
	{
		roleTerms:  []string{"engineer", "developer", "technical"},
		applies:    func(months int) bool { return months >= 60 },
		personaID:  "persona_002",
		confidence: 80,
		reasoning:  "Senior technical professional",
	},
	{
		roleTerms:  []string{"hr", "human resources", "recruiter"},
		personaID:  "persona_004",
		confidence: 85,
		reasoning:  "HR professional",
	},
	{
		roleTerms:  []string{"sales", "account", "business development"},
		personaID:  "persona_005",
		confidence: 80,
		reasoning:  "Sales professional",
	},
	{
		applies:    func(months int) bool { return months < 12 },
		personaID:  "persona_003",
		confidence: 70,
		reasoning:  "Limited experience in field",
	},
}

var defaultMatch = matchRule{
	personaID:  "persona_001",
	confidence: 60,
	reasoning:  "General professional development",
}

// RuleBasedMatch is the deterministic matcher over role keywords and experience. Role
// terms match as case-insensitive substrings; a missing experience counts as zero.
func RuleBasedMatch(profile intakev1.Profile) intakev1.PersonaMatch {
	role := strings.ToLower(profile.RoleOrEmpty())
	months := profile.ExperienceOrZero()

	for _, rule := range matchRules {
		if rule.matches(role, months) {
			return rule.match()
		}
	}
	return defaultMatch.match()
}

func (r matchRule) matches(role string, months int) bool {
	if len(r.roleTerms) > 0 {
		found := false
		for _, term := range r.roleTerms {
			if strings.Contains(role, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return r.applies == nil || r.applies(months)
}

func (r matchRule) match() intakev1.PersonaMatch {
	return intakev1.PersonaMatch{
		MatchedPersonaID: r.personaID,
		ConfidenceScore:  r.confidence,
		Reasoning:        r.reasoning,
		Source:           intakev1.MatchSourceRules,
	}
}
