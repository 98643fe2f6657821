// Package events publishes conversation milestones for downstream consumers such as the
// enrolment mailer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const (
	TypeRecommendationMade     = "recommendation.made"
	TypeRecommendationDeclined = "recommendation.declined"
	TypeEnrollmentCompleted    = "enrollment.completed"

	DefaultExchange = "videa_events"
)

// Event is the JSON body of every published message.
type Event struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	PersonaID      string    `json:"persona_id,omitempty"`
	CollectionID   string    `json:"collection_id,omitempty"`
	Confidence     int       `json:"confidence_score,omitempty"`
	Enrollments    int       `json:"enrollments,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// RoutingKey is "<type>.<conversation id>" so consumers can bind on either part.
func (e Event) RoutingKey() string {
	return fmt.Sprintf("%s.%s", e.Type, e.ConversationID)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event, used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}

// AMQPPublisher publishes to a topic exchange. A fresh channel is opened per publish.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	once    sync.Once
	declErr error
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to RabbitMQ")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

func (p *AMQPPublisher) declare(ch *amqp.Channel) error {
	p.once.Do(func() {
		p.declErr = ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil)
	})
	return p.declErr
}

func (p *AMQPPublisher) Publish(_ context.Context, e Event) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := p.declare(ch); err != nil {
		return errors.Wrapf(err, "error declaring exchange %s", p.exchange)
	}

	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return ch.Publish(
		p.exchange,
		e.RoutingKey(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.Timestamp,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}

// Emit publishes and only logs failures; events never fail a conversation turn.
func Emit(ctx context.Context, p Publisher, logger *log.Entry, e Event) {
	if p == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.WithError(err).WithField("event", e.Type).Warn("error publishing event")
	}
}
