package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift/videa/pkg/events"
)

// EventFlags configures where conversation lifecycle events are published.
type EventFlags struct {
	RabbitMQURL string
	Exchange    string
}

func NewEventFlags() *EventFlags {
	return &EventFlags{
		Exchange: events.DefaultExchange,
	}
}

func (f *EventFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RabbitMQURL, "rabbitmq-url", os.Getenv("RABBITMQ_URL"), "AMQP URL to publish conversation events to, empty disables publishing")
	fs.StringVar(&f.Exchange, "events-exchange", f.Exchange, "Topic exchange for conversation events")
}

// GetPublisher returns a no-op publisher when no broker is configured.
func (f *EventFlags) GetPublisher() (events.Publisher, error) {
	if f.RabbitMQURL == "" {
		return events.Noop{}, nil
	}
	publisher, err := events.NewAMQPPublisher(f.RabbitMQURL, f.Exchange)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}
