package events

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestRoutingKey(t *testing.T) {
	e := Event{Type: TypeEnrollmentCompleted, ConversationID: "abc"}
	assert.Equal(t, "enrollment.completed.abc", e.RoutingKey())
}

func TestEmit(t *testing.T) {
	logger := log.WithField("test", true)

	r := &recorder{}
	Emit(context.Background(), r, logger, Event{Type: TypeRecommendationMade, ConversationID: "abc"})
	if assert.Len(t, r.events, 1) {
		assert.False(t, r.events[0].Timestamp.IsZero(), "timestamp should be filled in")
	}

	failing := &recorder{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), failing, logger, Event{Type: TypeEnrollmentCompleted})
	})

	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, logger, Event{Type: TypeEnrollmentCompleted})
	})
	assert.NoError(t, Noop{}.Publish(context.Background(), Event{}))
}
