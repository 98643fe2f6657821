package conversation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/db"
	"github.com/openshift/videa/pkg/db/query"
)

// Store persists conversation state and the message log. Load returns ErrNotFound for
// unknown ids; Save and Enroll return ErrConflict when state.Version is stale.
type Store interface {
	Create(ctx context.Context, state *intakev1.ConversationState, messages []query.LoggedMessage) error
	Load(ctx context.Context, conversationID string) (*intakev1.ConversationState, error)
	Save(ctx context.Context, state *intakev1.ConversationState, messages []query.LoggedMessage) error
	// Enroll saves the completed state together with the user profile and enrollment rows,
	// returning the number of videos enrolled.
	Enroll(ctx context.Context, state *intakev1.ConversationState, messages []query.LoggedMessage) (int, error)
	// Transcript returns the message log, oldest first.
	Transcript(ctx context.Context, conversationID string) ([]intakev1.LogEntry, error)
}

// DBStore is the Store backed by the relational database.
type DBStore struct {
	dbc *db.DB
}

func NewDBStore(dbc *db.DB) *DBStore {
	return &DBStore{dbc: dbc}
}

func (s *DBStore) Create(ctx context.Context, state *intakev1.ConversationState, messages []query.LoggedMessage) error {
	return query.CreateConversation(ctx, s.dbc, state, messages)
}

func (s *DBStore) Load(ctx context.Context, conversationID string) (*intakev1.ConversationState, error) {
	state, err := query.LoadConversation(ctx, s.dbc, conversationID)
	return state, translate(err)
}

func (s *DBStore) Save(ctx context.Context, state *intakev1.ConversationState, messages []query.LoggedMessage) error {
	return translate(query.SaveConversation(ctx, s.dbc, state, messages))
}

func (s *DBStore) Enroll(ctx context.Context, state *intakev1.ConversationState, messages []query.LoggedMessage) (int, error) {
	n, err := query.EnrollUser(ctx, s.dbc, state, messages)
	return n, translate(err)
}

func (s *DBStore) Transcript(ctx context.Context, conversationID string) ([]intakev1.LogEntry, error) {
	return query.ListMessages(ctx, s.dbc, conversationID)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, query.ErrStaleVersion):
		return ErrConflict
	}
	return err
}
