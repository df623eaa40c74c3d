package events

import (
	"encoding/json"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

type Notifier interface {
	Publish(event Event) error
}

// Publisher pushes events onto the rmq queue.
type Publisher struct {
	queue rmq.Queue
}

func NewPublisher(connection rmq.Connection, queueName string) (*Publisher, error) {
	queue, err := connection.OpenQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("open queue %s: %w", queueName, err)
	}

	return &Publisher{queue: queue}, nil
}

func (p *Publisher) Publish(event Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.queue.PublishBytes(eventBytes); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	log.Debug().Str("type", string(event.Type)).Msg("Published event")

	return nil
}

// Discard drops every event, used when redis is not configured.
type Discard struct{}

func (Discard) Publish(Event) error { return nil }
