package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/videa/pkg/ai"
	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/db"
	"github.com/openshift/videa/pkg/db/dbtest"
	"github.com/openshift/videa/pkg/db/models"
	"github.com/openshift/videa/pkg/db/query"
)

func seededDB(t *testing.T) *db.DB {
	t.Helper()
	dbc := dbtest.New(t)
	seed, err := catalog.LoadSeed()
	require.NoError(t, err)
	require.NoError(t, seed.Load(context.Background(), dbc))
	return dbc
}

func TestDBStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbc := seededDB(t)
	store := NewDBStore(dbc)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	m := NewManager(store, catalog.NewDBReader(dbc), &fakeAdvisor{
		extractions: []intakev1.Profile{{Role: strPtr("recruiter"), LearningGoals: []string{"interviewing"}}},
	}, nil)
	state, err := m.Start(ctx, "user-1")
	require.NoError(t, err)

	loaded, err := store.Load(ctx, state.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, state.UserID, loaded.UserID)
	assert.Equal(t, intakev1.StatusActive, loaded.Status)
	assert.Equal(t, 0, loaded.Version)
	assert.Equal(t, []string{}, loaded.Profile.PrimaryChallenges)

	_, err = m.HandleMessage(ctx, state.ConversationID, "I'm a recruiter and want to get better at interviewing")
	require.NoError(t, err)

	loaded, err = store.Load(ctx, state.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Version)
	assert.Equal(t, "recruiter", *loaded.Profile.Role)
	assert.Equal(t, 50, loaded.CompletionPercentage)

	row := models.Conversation{}
	require.NoError(t, dbc.DB.First(&row, "conversation_id = ?", state.ConversationID).Error)
	assert.Equal(t, 1, row.ExchangeCount)
	assert.Equal(t, 50, row.CompletionPercentage)
	assert.Equal(t, "active", row.Status)

	messages, err := store.Transcript(ctx, state.ConversationID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "assistant", messages[0].Speaker)
	assert.Equal(t, Greeting, messages[0].Content)
	assert.Equal(t, "user", messages[1].Speaker)
	require.NotNil(t, messages[1].ExtractedData)
	assert.Equal(t, "recruiter", *messages[1].ExtractedData.Role)
	assert.Nil(t, messages[2].ExtractedData)

	transcript, err := m.Transcript(ctx, state.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, messages, transcript)

	_, err = m.Transcript(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBStoreRejectsStaleWrites(t *testing.T) {
	ctx := context.Background()
	dbc := seededDB(t)
	store := NewDBStore(dbc)
	m := NewManager(store, catalog.NewDBReader(dbc), &fakeAdvisor{}, nil)

	state, err := m.Start(ctx, "user-1")
	require.NoError(t, err)

	a, err := store.Load(ctx, state.ConversationID)
	require.NoError(t, err)
	b, err := store.Load(ctx, state.ConversationID)
	require.NoError(t, err)

	a.ExchangeCount = 1
	require.NoError(t, store.Save(ctx, a, []query.LoggedMessage{{Speaker: "user", Content: "from a"}}))
	b.ExchangeCount = 7
	assert.ErrorIs(t, store.Save(ctx, b, []query.LoggedMessage{{Speaker: "user", Content: "from b"}}), ErrConflict)

	loaded, err := store.Load(ctx, state.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.ExchangeCount)
	messages, err := store.Transcript(ctx, state.ConversationID)
	require.NoError(t, err)
	assert.Len(t, messages, 2, "the rejected save must not log its messages")

	ghost := &intakev1.ConversationState{ConversationID: "ghost"}
	assert.ErrorIs(t, store.Save(ctx, ghost, nil), ErrNotFound)
}

func TestFullIntakeWithoutCompletionService(t *testing.T) {
	ctx := context.Background()
	dbc := seededDB(t)
	m := NewManager(NewDBStore(dbc), catalog.NewDBReader(dbc), ai.NewAdvisor(nil), nil)

	state, err := m.Start(ctx, "user-9")
	require.NoError(t, err)

	// with no service nothing is extracted, so only the exchange limit can trigger
	var reply *Reply
	for i := 0; i < RecommendAtExchange; i++ {
		reply, err = m.HandleMessage(ctx, state.ConversationID, "I just started a new job")
		require.NoError(t, err)
	}
	require.Equal(t, intakev1.StatusRecommendationMade, reply.Status)
	assert.Contains(t, reply.Message, "**Career Changer Entering Field**")
	assert.Contains(t, reply.Message, "**Career Transition Bootcamp**")
	assert.Contains(t, reply.Message, "5 videos")

	c, err := m.Confirm(ctx, state.ConversationID, true)
	require.NoError(t, err)
	assert.True(t, c.Success)

	var profiles []models.UserProfile
	require.NoError(t, dbc.DB.Where("user_id = ?", "user-9").Find(&profiles).Error)
	require.Len(t, profiles, 1)
	assert.Equal(t, "persona_003", profiles[0].MatchedPersonaID)
	assert.Equal(t, "collection_003", profiles[0].AssignedCollectionID)
	assert.Equal(t, 70, *profiles[0].ConfidenceScore)

	var enrollments []models.UserEnrollment
	require.NoError(t, dbc.DB.Where("user_id = ?", "user-9").Order("enrollment_id").Find(&enrollments).Error)
	require.Len(t, enrollments, 5)
	assert.Equal(t, "vid_011", enrollments[0].VideoID)
	assert.Equal(t, "vid_015", enrollments[4].VideoID)
	for _, e := range enrollments {
		assert.Equal(t, models.EnrollmentStatusEnrolled, e.Status)
	}

	row := models.Conversation{}
	require.NoError(t, dbc.DB.First(&row, "conversation_id = ?", state.ConversationID).Error)
	assert.Equal(t, "completed", row.Status)
	assert.NotNil(t, row.CompletedAt)
	assert.Equal(t, "collection_003", *row.RecommendedCollectionID)

	counts, err := query.CountConversationsByStatus(ctx, dbc)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"completed": 1}, counts)
}
