package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgtype"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/db"
	"github.com/openshift/videa/pkg/db/models"
)

// ErrStaleVersion means the conversation was saved by someone else since it was loaded.
var ErrStaleVersion = errors.New("conversation was modified concurrently")

// LoggedMessage is one entry for the append-only message log.
type LoggedMessage struct {
	Speaker string
	Content string
	// Extracted is the profile delta pulled from the user's message, nil when none.
	Extracted *intakev1.Profile
}

// CreateConversation inserts a new conversation at version 0 along with its first
// logged messages.
func CreateConversation(ctx context.Context, dbc *db.DB, state *intakev1.ConversationState, messages []LoggedMessage) error {
	blob, err := EncodeJSONB(state)
	if err != nil {
		return errors.Wrap(err, "error encoding conversation state")
	}

	now := time.Now()
	row := models.Conversation{
		ConversationID:       state.ConversationID,
		UserID:               state.UserID,
		Status:               string(state.Status),
		StartedAt:            state.StartedAt,
		LastActivityAt:       now,
		StateJSON:            blob,
		ExchangeCount:        state.ExchangeCount,
		CompletionPercentage: state.CompletionPercentage,
		Version:              0,
	}

	return dbc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, "error creating conversation")
		}
		state.Version = 0
		return appendMessages(tx, state.ConversationID, messages, now)
	})
}

// LoadConversation returns gorm.ErrRecordNotFound when there is no such conversation.
func LoadConversation(ctx context.Context, dbc *db.DB, conversationID string) (*intakev1.ConversationState, error) {
	row := models.Conversation{}
	res := dbc.DB.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&row)
	if res.Error != nil {
		return nil, res.Error
	}

	state := &intakev1.ConversationState{}
	if err := decodeJSONB(row.StateJSON, state); err != nil {
		return nil, errors.Wrapf(err, "error decoding state of conversation %s", conversationID)
	}
	state.Version = row.Version
	return state, nil
}

// SaveConversation writes the full state and appends messages to the log. The write only
// applies if the stored version still matches state.Version, otherwise ErrStaleVersion is
// returned and nothing is written. On success state.Version is advanced.
func SaveConversation(ctx context.Context, dbc *db.DB, state *intakev1.ConversationState, messages []LoggedMessage) error {
	return dbc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveConversation(tx, state, messages)
	})
}

func saveConversation(tx *gorm.DB, state *intakev1.ConversationState, messages []LoggedMessage) error {
	blob, err := EncodeJSONB(state)
	if err != nil {
		return errors.Wrap(err, "error encoding conversation state")
	}

	now := time.Now()
	res := tx.Model(&models.Conversation{}).
		Where("conversation_id = ? AND version = ?", state.ConversationID, state.Version).
		Updates(map[string]any{
			"state_json":                blob,
			"status":                    string(state.Status),
			"last_activity_at":          now,
			"completed_at":              state.CompletedAt,
			"exchange_count":            state.ExchangeCount,
			"completion_percentage":     state.CompletionPercentage,
			"matched_persona_id":        state.MatchedPersonaID,
			"recommended_collection_id": state.RecommendedCollectionID,
			"confidence_score":          state.ConfidenceScore,
			"version":                   gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "error saving conversation")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Conversation{}).Where("conversation_id = ?", state.ConversationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		log.WithFields(log.Fields{
			"conversation": state.ConversationID,
			"version":      state.Version,
		}).Warn("rejecting save of stale conversation state")
		return ErrStaleVersion
	}

	if err := appendMessages(tx, state.ConversationID, messages, now); err != nil {
		return err
	}
	state.Version++
	return nil
}

func appendMessages(tx *gorm.DB, conversationID string, messages []LoggedMessage, now time.Time) error {
	if len(messages) == 0 {
		return nil
	}
	rows := make([]models.ConversationMessage, 0, len(messages))
	for i, m := range messages {
		extracted := pgtype.JSONB{Status: pgtype.Null}
		if m.Extracted != nil {
			var err error
			if extracted, err = EncodeJSONB(m.Extracted); err != nil {
				return errors.Wrap(err, "error encoding extracted data")
			}
		}
		rows = append(rows, models.ConversationMessage{
			ConversationID: conversationID,
			Speaker:        m.Speaker,
			MessageContent: m.Content,
			// keep log order stable when several messages land in one save
			Timestamp:     now.Add(time.Duration(i) * time.Microsecond),
			ExtractedData: extracted,
		})
	}
	return errors.Wrap(tx.Create(&rows).Error, "error logging messages")
}

// EnrollUser records the accepted recommendation: a user_profiles snapshot, one enrollment
// per video of the recommended collection in sequence order, and the conversation state,
// all in one transaction. The conversation save uses the same version check as
// SaveConversation.
func EnrollUser(ctx context.Context, dbc *db.DB, state *intakev1.ConversationState, messages []LoggedMessage) (int, error) {
	if state.RecommendedCollectionID == nil || state.MatchedPersonaID == nil {
		return 0, errors.Errorf("conversation %s has no recommendation to enroll in", state.ConversationID)
	}
	collectionID := *state.RecommendedCollectionID

	enrolled := 0
	err := dbc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := state.Profile
		profile := models.UserProfile{
			UserID:                    state.UserID,
			ConversationID:            state.ConversationID,
			Role:                      p.Role,
			ExperienceMonths:          p.ExperienceMonths,
			TeamSize:                  p.TeamSize,
			Industry:                  p.Industry,
			PrimaryChallenges:         models.TextArray(p.PrimaryChallenges),
			LearningGoals:             models.TextArray(p.LearningGoals),
			TimeAvailableHoursPerWeek: p.TimeAvailableHoursPerWeek,
			EmotionalState:            p.EmotionalState,
			Urgency:                   p.Urgency,
			MatchedPersonaID:          *state.MatchedPersonaID,
			AssignedCollectionID:      collectionID,
			ConfidenceScore:           state.ConfidenceScore,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return errors.Wrap(err, "error creating user profile")
		}

		var videoIDs []string
		res := tx.Model(&models.CollectionVideo{}).
			Where("collection_id = ?", collectionID).
			Order("sequence_position").
			Pluck("video_id", &videoIDs)
		if res.Error != nil {
			return res.Error
		}

		now := time.Now()
		enrollments := make([]models.UserEnrollment, 0, len(videoIDs))
		for _, vid := range videoIDs {
			enrollments = append(enrollments, models.UserEnrollment{
				UserID:       state.UserID,
				VideoID:      vid,
				CollectionID: collectionID,
				Status:       models.EnrollmentStatusEnrolled,
				EnrolledAt:   now,
			})
		}
		if len(enrollments) > 0 {
			if err := tx.CreateInBatches(&enrollments, dbc.BatchSize).Error; err != nil {
				return errors.Wrap(err, "error creating enrollments")
			}
		}
		enrolled = len(enrollments)

		return saveConversation(tx, state, messages)
	})
	return enrolled, err
}

// ListMessages returns the logged transcript of a conversation, oldest first.
func ListMessages(ctx context.Context, dbc *db.DB, conversationID string) ([]intakev1.LogEntry, error) {
	rows := []models.ConversationMessage{}
	res := dbc.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp, message_id").
		Find(&rows)
	if res.Error != nil {
		return nil, res.Error
	}

	entries := make([]intakev1.LogEntry, 0, len(rows))
	for _, row := range rows {
		extracted, err := extractedProfile(row)
		if err != nil {
			return nil, errors.Wrapf(err, "bad extracted data on message %d", row.MessageID)
		}
		entries = append(entries, intakev1.LogEntry{
			Speaker:       row.Speaker,
			Content:       row.MessageContent,
			Timestamp:     row.Timestamp,
			ExtractedData: extracted,
		})
	}
	return entries, nil
}

// CountConversationsByStatus reports how many conversations sit in each status.
func CountConversationsByStatus(ctx context.Context, dbc *db.DB) (map[string]int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	res := dbc.DB.WithContext(ctx).Model(&models.Conversation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// extractedProfile decodes a logged message's extracted data, nil when absent.
func extractedProfile(m models.ConversationMessage) (*intakev1.Profile, error) {
	if m.ExtractedData.Status != pgtype.Present {
		return nil, nil
	}
	p := &intakev1.Profile{}
	return p, json.Unmarshal(m.ExtractedData.Bytes, p)
}
