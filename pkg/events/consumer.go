package events

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
)

type Handler func(event Event) error

type BatchConsumer struct {
	Handler Handler
}

func NewBatchConsumer(handler Handler) *BatchConsumer {
	return &BatchConsumer{Handler: handler}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for i, payload := range payloads {
		var event Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode event")
			if err := batch[i].Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject event")
			}
			continue
		}

		if err := consumer.Handler(event); err != nil {
			log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to handle event")
			if err := batch[i].Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject event")
			}
			continue
		}

		if err := batch[i].Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack event")
		}
	}
}

// LogEvent is the default handler, it records the event in the log.
func LogEvent(event Event) error {
	entry := log.Info().Str("type", string(event.Type)).Time("timestamp", event.Timestamp)

	if event.Ticket != nil {
		entry = entry.Str("ticket", event.Ticket.TicketID).Int("vehicle", event.Ticket.VehicleID)
	}
	if event.Vehicle != nil {
		entry = entry.Int("vehicle", event.Vehicle.ID)
	}

	entry.Msg("Event received")

	log.Debug().Msg(pretty.Sprint(event))

	return nil
}
