// Package conversation runs the intake chat: it owns each conversation's profile and
// phase, and persists the full state after every turn.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/db/query"
	"github.com/openshift/videa/pkg/events"
)

var (
	ErrNotFound       = errors.New("conversation not found")
	ErrConflict       = errors.New("conversation was modified by another request, reload and retry")
	ErrClosed         = errors.New("conversation is already completed")
	ErrInvalidRequest = errors.New("invalid request")
)

const (
	// RecommendAtCompletion and RecommendAtExchange trigger the recommendation, whichever
	// is reached first.
	RecommendAtCompletion = 60
	RecommendAtExchange   = 10

	// MaxMessageBytes bounds a single user message.
	MaxMessageBytes = 4096
)

// Advisor is the language-model side of a turn. Each call degrades to a fallback value
// rather than failing.
type Advisor interface {
	ExtractProfile(ctx context.Context, logger *log.Entry, message string, current intakev1.Profile) intakev1.Profile
	NextQuestion(ctx context.Context, logger *log.Entry, state *intakev1.ConversationState) string
	MatchPersona(ctx context.Context, logger *log.Entry, profile intakev1.Profile, personas []intakev1.Persona) intakev1.PersonaMatch
}

// Reply is the result of one user message.
type Reply struct {
	Message              string                      `json:"message"`
	CompletionPercentage int                         `json:"completion_percentage"`
	Status               intakev1.ConversationStatus `json:"status"`
	ExchangeCount        int                         `json:"exchange_count"`
}

// Confirmation is the result of accepting or declining a recommendation.
type Confirmation struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Manager struct {
	store   Store
	catalog catalog.Reader
	advisor Advisor
	events  events.Publisher

	now func() time.Time
}

func NewManager(store Store, reader catalog.Reader, advisor Advisor, publisher events.Publisher) *Manager {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Manager{
		store:   store,
		catalog: reader,
		advisor: advisor,
		events:  publisher,
		now:     time.Now,
	}
}

// Start opens a conversation for userID, or for a fresh anonymous id when empty, and
// greets the user.
func (m *Manager) Start(ctx context.Context, userID string) (*intakev1.ConversationState, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "anon_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	state := &intakev1.ConversationState{
		ConversationID:  uuid.NewString(),
		UserID:          userID,
		StartedAt:       m.now().UTC(),
		Profile:         intakev1.NewProfile(),
		CollectedFields: []string{},
		MissingFields:   append([]string{}, intakev1.RequiredFields...),
		Messages:        []intakev1.Message{{Role: intakev1.RoleAssistant, Content: Greeting}},
		Status:          intakev1.StatusActive,
	}

	err := m.store.Create(ctx, state, []query.LoggedMessage{{Speaker: intakev1.RoleAssistant, Content: Greeting}})
	if err != nil {
		return nil, err
	}
	conversationsStartedMetric.Inc()
	log.WithFields(log.Fields{
		"conversation": state.ConversationID,
		"user":         state.UserID,
	}).Info("conversation started")
	return state, nil
}

// Get returns the stored state of a conversation.
func (m *Manager) Get(ctx context.Context, conversationID string) (*intakev1.ConversationState, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: missing conversation_id", ErrInvalidRequest)
	}
	return m.store.Load(ctx, conversationID)
}

// Transcript returns the logged messages of a conversation, including the extracted
// profile delta of each user message.
func (m *Manager) Transcript(ctx context.Context, conversationID string) ([]intakev1.LogEntry, error) {
	if _, err := m.Get(ctx, conversationID); err != nil {
		return nil, err
	}
	return m.store.Transcript(ctx, conversationID)
}

// HandleMessage runs one exchange: record the user's message, extract and merge profile
// fields, then either recommend a collection or ask the next question.
func (m *Manager) HandleMessage(ctx context.Context, conversationID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if conversationID == "" || message == "" {
		return nil, fmt.Errorf("%w: missing conversation_id or message", ErrInvalidRequest)
	}
	if len(message) > MaxMessageBytes {
		return nil, fmt.Errorf("%w: message too large (maximum %d bytes)", ErrInvalidRequest, MaxMessageBytes)
	}

	state, err := m.store.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if state.Status == intakev1.StatusCompleted {
		return nil, ErrClosed
	}
	logger := log.WithFields(log.Fields{
		"conversation": conversationID,
		"exchange":     state.ExchangeCount + 1,
	})

	state.Messages = append(state.Messages, intakev1.Message{Role: intakev1.RoleUser, Content: message})
	state.ExchangeCount++

	delta := m.advisor.ExtractProfile(ctx, logger, message, state.Profile)
	state.Profile.Merge(delta)
	UpdateCompletion(state)

	var reply string
	var match *intakev1.PersonaMatch
	if ShouldRecommend(state) {
		reply, match, err = m.recommend(ctx, logger, state)
		if err != nil {
			return nil, err
		}
	} else {
		reply = m.advisor.NextQuestion(ctx, logger, state)
	}
	state.Messages = append(state.Messages, intakev1.Message{Role: intakev1.RoleAssistant, Content: reply})

	userLog := query.LoggedMessage{Speaker: intakev1.RoleUser, Content: message}
	if !delta.IsEmpty() {
		userLog.Extracted = &delta
	}
	err = m.store.Save(ctx, state, []query.LoggedMessage{
		userLog,
		{Speaker: intakev1.RoleAssistant, Content: reply},
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			conflictsMetric.Inc()
		}
		return nil, err
	}

	turnsMetric.WithLabelValues(string(state.Status)).Inc()
	if match != nil {
		recommendationsMetric.WithLabelValues(match.MatchedPersonaID, string(match.Source)).Inc()
		events.Emit(ctx, m.events, logger, events.Event{
			Type:           events.TypeRecommendationMade,
			ConversationID: state.ConversationID,
			UserID:         state.UserID,
			PersonaID:      match.MatchedPersonaID,
			CollectionID:   *state.RecommendedCollectionID,
			Confidence:     match.ConfidenceScore,
		})
	}
	logger.WithFields(log.Fields{
		"status":     state.Status,
		"completion": state.CompletionPercentage,
	}).Debug("exchange handled")

	return &Reply{
		Message:              reply,
		CompletionPercentage: state.CompletionPercentage,
		Status:               state.Status,
		ExchangeCount:        state.ExchangeCount,
	}, nil
}

// UpdateCompletion recomputes the collected and missing required fields and the
// completion percentage from the profile.
func UpdateCompletion(state *intakev1.ConversationState) {
	state.CollectedFields, state.MissingFields = state.Profile.RequiredFieldStatus()
	state.CompletionPercentage = state.Profile.CompletionPercentage()
}

// ShouldRecommend reports whether an active conversation has gathered enough to make a
// recommendation. Once one has been made it is never made again.
func ShouldRecommend(state *intakev1.ConversationState) bool {
	if state.Status != intakev1.StatusActive {
		return false
	}
	return state.CompletionPercentage >= RecommendAtCompletion || state.ExchangeCount >= RecommendAtExchange
}

// recommend matches a persona and looks up its collection. The state only moves to
// recommendation_made when a collection exists; otherwise the user is pointed to a human
// advisor and the conversation stays active.
func (m *Manager) recommend(ctx context.Context, logger *log.Entry, state *intakev1.ConversationState) (string, *intakev1.PersonaMatch, error) {
	personas, err := m.catalog.ListPersonas(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("error listing personas: %w", err)
	}

	match := m.advisor.MatchPersona(ctx, logger, state.Profile, personas)
	collection, err := m.catalog.CollectionForPersona(ctx, match.MatchedPersonaID)
	if err != nil {
		return "", nil, fmt.Errorf("error loading collection for %s: %w", match.MatchedPersonaID, err)
	}
	if collection == nil {
		logger.WithField("persona", match.MatchedPersonaID).Warn("no active collection for matched persona")
		return NoCollectionMessage, nil, nil
	}

	personaName := match.MatchedPersonaID
	for _, p := range personas {
		if p.PersonaID == match.MatchedPersonaID {
			personaName = p.Name
			break
		}
	}

	state.Status = intakev1.StatusRecommendationMade
	state.MatchedPersonaID = &match.MatchedPersonaID
	state.RecommendedCollectionID = &collection.CollectionID
	confidence := match.ConfidenceScore
	state.ConfidenceScore = &confidence

	logger.WithFields(log.Fields{
		"persona":    match.MatchedPersonaID,
		"collection": collection.CollectionID,
		"confidence": match.ConfidenceScore,
		"source":     match.Source,
	}).Info("recommendation made")
	return RecommendationMessage(personaName, match, collection), &match, nil
}

// Confirm answers the recommendation. Accepting enrolls the user and completes the
// conversation. Declining, or confirming when nothing was recommended, returns the decline
// message and leaves the status alone. A completed conversation is never changed.
func (m *Manager) Confirm(ctx context.Context, conversationID string, confirmed bool) (*Confirmation, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: missing conversation_id", ErrInvalidRequest)
	}
	state, err := m.store.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	logger := log.WithField("conversation", conversationID)

	if state.Status == intakev1.StatusCompleted {
		if !confirmed {
			return &Confirmation{Success: false, Message: AlreadyEnrolledMessage}, nil
		}
		return &Confirmation{Success: true, Message: EnrolledMessage}, nil
	}

	if state.RecommendedCollectionID == nil {
		logger.Debug("confirmation without a recommendation")
		return &Confirmation{Success: false, Message: DeclinedMessage}, nil
	}

	if !confirmed {
		now := m.now().UTC()
		state.DeclinedAt = &now
		state.Messages = append(state.Messages, intakev1.Message{Role: intakev1.RoleAssistant, Content: DeclinedMessage})
		err := m.store.Save(ctx, state, []query.LoggedMessage{{Speaker: intakev1.RoleAssistant, Content: DeclinedMessage}})
		if err != nil {
			if errors.Is(err, ErrConflict) {
				conflictsMetric.Inc()
			}
			return nil, err
		}
		declinesMetric.Inc()
		events.Emit(ctx, m.events, logger, events.Event{
			Type:           events.TypeRecommendationDeclined,
			ConversationID: state.ConversationID,
			UserID:         state.UserID,
			PersonaID:      deref(state.MatchedPersonaID),
			CollectionID:   *state.RecommendedCollectionID,
		})
		logger.Info("recommendation declined")
		return &Confirmation{Success: false, Message: DeclinedMessage}, nil
	}

	now := m.now().UTC()
	state.Status = intakev1.StatusCompleted
	state.CompletedAt = &now
	state.Messages = append(state.Messages, intakev1.Message{Role: intakev1.RoleAssistant, Content: EnrolledMessage})
	enrolled, err := m.store.Enroll(ctx, state, []query.LoggedMessage{{Speaker: intakev1.RoleAssistant, Content: EnrolledMessage}})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			conflictsMetric.Inc()
		}
		return nil, err
	}

	enrollmentsMetric.WithLabelValues(*state.RecommendedCollectionID).Inc()
	events.Emit(ctx, m.events, logger, events.Event{
		Type:           events.TypeEnrollmentCompleted,
		ConversationID: state.ConversationID,
		UserID:         state.UserID,
		PersonaID:      deref(state.MatchedPersonaID),
		CollectionID:   *state.RecommendedCollectionID,
		Confidence:     derefInt(state.ConfidenceScore),
		Enrollments:    enrolled,
	})
	logger.WithFields(log.Fields{
		"user":       state.UserID,
		"collection": *state.RecommendedCollectionID,
		"videos":     enrolled,
	}).Info("user enrolled")
	return &Confirmation{Success: true, Message: EnrolledMessage}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
