package v1

import (
	"time"
)

// ConversationStatus is the phase of an intake conversation. Phases only move forward:
// active -> recommendation_made -> completed.
type ConversationStatus string

const (
	StatusActive             ConversationStatus = "active"
	StatusRecommendationMade ConversationStatus = "recommendation_made"
	StatusCompleted          ConversationStatus = "completed"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Profile field names, as used in prompts, missing/collected lists and extraction replies.
const (
	FieldRole                      = "role"
	FieldExperienceMonths          = "experience_months"
	FieldTeamSize                  = "team_size"
	FieldIndustry                  = "industry"
	FieldPrimaryChallenges         = "primary_challenges"
	FieldLearningGoals             = "learning_goals"
	FieldTimeAvailableHoursPerWeek = "time_available_hours_per_week"
	FieldEmotionalState            = "emotional_state"
	FieldUrgency                   = "urgency"
)

// RequiredFields drive the completion percentage.
var RequiredFields = []string{
	FieldRole,
	FieldExperienceMonths,
	FieldPrimaryChallenges,
	FieldLearningGoals,
}

// ProfileFields lists every profile field in display order.
var ProfileFields = []string{
	FieldRole,
	FieldExperienceMonths,
	FieldTeamSize,
	FieldIndustry,
	FieldPrimaryChallenges,
	FieldLearningGoals,
	FieldTimeAvailableHoursPerWeek,
	FieldEmotionalState,
	FieldUrgency,
}

// Message is one turn of the chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LogEntry is one row of a conversation's append-only message log.
type LogEntry struct {
	Speaker   string    `json:"speaker"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// ExtractedData is the profile delta pulled from a user message, nil when none.
	ExtractedData *Profile `json:"extracted_data,omitempty"`
}

// Profile is what we have learned about the user so far. Nil scalars and empty lists
// mean "not known yet".
type Profile struct {
	Role                      *string  `json:"role"`
	ExperienceMonths          *int     `json:"experience_months"`
	TeamSize                  *int     `json:"team_size"`
	Industry                  *string  `json:"industry"`
	PrimaryChallenges         []string `json:"primary_challenges"`
	LearningGoals             []string `json:"learning_goals"`
	TimeAvailableHoursPerWeek *int     `json:"time_available_hours_per_week"`
	EmotionalState            *string  `json:"emotional_state"`
	Urgency                   *string  `json:"urgency"`
}

// NewProfile returns an empty profile whose list fields encode as [] rather than null.
func NewProfile() Profile {
	return Profile{
		PrimaryChallenges: []string{},
		LearningGoals:     []string{},
	}
}

// IsEmpty reports whether nothing at all is set, which is how an empty extraction looks.
func (p Profile) IsEmpty() bool {
	for _, f := range ProfileFields {
		if p.Has(f) {
			return false
		}
	}
	return true
}

// Has reports whether the named field holds a non-empty value.
func (p Profile) Has(field string) bool {
	switch field {
	case FieldRole:
		return p.Role != nil && *p.Role != ""
	case FieldExperienceMonths:
		return p.ExperienceMonths != nil
	case FieldTeamSize:
		return p.TeamSize != nil
	case FieldIndustry:
		return p.Industry != nil && *p.Industry != ""
	case FieldPrimaryChallenges:
		return len(p.PrimaryChallenges) > 0
	case FieldLearningGoals:
		return len(p.LearningGoals) > 0
	case FieldTimeAvailableHoursPerWeek:
		return p.TimeAvailableHoursPerWeek != nil
	case FieldEmotionalState:
		return p.EmotionalState != nil && *p.EmotionalState != ""
	case FieldUrgency:
		return p.Urgency != nil && *p.Urgency != ""
	}
	return false
}

// RoleOrEmpty and ExperienceOrZero are the views the rule-based matcher works from.
func (p Profile) RoleOrEmpty() string {
	if p.Role == nil {
		return ""
	}
	return *p.Role
}

func (p Profile) ExperienceOrZero() int {
	if p.ExperienceMonths == nil {
		return 0
	}
	return *p.ExperienceMonths
}

// ConversationState is the full per-conversation record persisted after every turn.
type ConversationState struct {
	ConversationID          string             `json:"conversation_id"`
	UserID                  string             `json:"user_id"`
	StartedAt               time.Time          `json:"started_at"`
	Profile                 Profile            `json:"profile"`
	CollectedFields         []string           `json:"collected_fields"`
	MissingFields           []string           `json:"missing_fields"`
	Messages                []Message          `json:"messages"`
	ExchangeCount           int                `json:"exchange_count"`
	CompletionPercentage    int                `json:"completion_percentage"`
	Status                  ConversationStatus `json:"status"`
	MatchedPersonaID        *string            `json:"matched_persona_id,omitempty"`
	RecommendedCollectionID *string            `json:"recommended_collection_id,omitempty"`
	ConfidenceScore         *int               `json:"confidence_score,omitempty"`
	DeclinedAt              *time.Time         `json:"declined_at,omitempty"`
	CompletedAt             *time.Time         `json:"completed_at,omitempty"`

	// Version is the optimistic concurrency token. It lives in its own column, not the blob.
	Version int `json:"-"`
}

// LastMessages returns up to n of the most recent messages.
func (s *ConversationState) LastMessages(n int) []Message {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// Range is an inclusive min/max bound.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

type PersonaCharacteristics struct {
	Roles            []string `json:"role" yaml:"role"`
	ExperienceMonths Range    `json:"experience_months" yaml:"experience_months"`
	TeamSize         *Range   `json:"team_size,omitempty" yaml:"team_size,omitempty"`
	SkillLevel       string   `json:"skill_level,omitempty" yaml:"skill_level,omitempty"`
	PainPoints       []string `json:"pain_points" yaml:"pain_points"`
	LearningGoals    []string `json:"learning_goals" yaml:"learning_goals"`
}

type DiagnosticRules struct {
	Keywords             []string       `json:"keywords" yaml:"keywords"`
	ExperienceIndicators []string       `json:"experience_indicators" yaml:"experience_indicators"`
	ScoringWeights       map[string]int `json:"scoring_weights" yaml:"scoring_weights"`
}

// Persona is immutable reference data describing a learner archetype.
type Persona struct {
	PersonaID       string                 `json:"persona_id" yaml:"persona_id"`
	Name            string                 `json:"name" yaml:"name"`
	Description     string                 `json:"description" yaml:"description"`
	Characteristics PersonaCharacteristics `json:"characteristics" yaml:"characteristics"`
	DiagnosticRules DiagnosticRules        `json:"diagnostic_rules" yaml:"diagnostic_rules"`
}

// Video is a video as it appears inside a collection.
type Video struct {
	VideoID          string `json:"video_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	YoutubeURL       string `json:"youtube_url"`
	DurationMinutes  int    `json:"duration_minutes"`
	Difficulty       string `json:"difficulty"`
	Topic            string `json:"topic"`
	SequencePosition int    `json:"sequence_position"`
	IsRequired       bool   `json:"is_required"`
}

// Collection is an ordered learning path targeting a single persona.
type Collection struct {
	CollectionID             string  `json:"collection_id"`
	Name                     string  `json:"name"`
	Description              string  `json:"description"`
	TargetPersonaID          string  `json:"target_persona_id"`
	TotalVideos              int     `json:"total_videos"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	LearningPathType         string  `json:"learning_path_type"`
	Videos                   []Video `json:"videos"`
}

// MatchSource records which path produced a PersonaMatch.
type MatchSource string

const (
	MatchSourceModel MatchSource = "model"
	MatchSourceRules MatchSource = "rules"
)

// PersonaMatch is the matcher's verdict.
type PersonaMatch struct {
	MatchedPersonaID string      `json:"matched_persona_id"`
	ConfidenceScore  int         `json:"confidence_score"`
	Reasoning        string      `json:"reasoning"`
	Source           MatchSource `json:"source"`
}
