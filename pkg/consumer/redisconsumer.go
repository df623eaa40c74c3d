package consumer

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

// RedisConsumer runs a number of batch consumers against one rmq queue.
type RedisConsumer struct {
	Connection rmq.Connection
	QueueName  string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer

	// StatsListen serves queue stats and a health check when set, eg. ":3333"
	StatsListen string
}

func (c *RedisConsumer) Setup() error {
	if err := c.startConsumers(); err != nil {
		return err
	}

	if c.StatsListen != "" {
		go c.startStatsServer()
	}

	return nil
}

func (c *RedisConsumer) startConsumers() error {
	log.Info().Str("queue", c.QueueName).Int("consumers", c.NumberConsumers).Msg("Starting consumers")

	queue, err := c.Connection.OpenQueue(c.QueueName)
	if err != nil {
		return fmt.Errorf("open queue %s: %w", c.QueueName, err)
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return fmt.Errorf("consume queue %s: %w", c.QueueName, err)
	}

	for i := 0; i < c.NumberConsumers; i++ {
		tag := fmt.Sprintf("%s-%d", c.QueueName, i)

		if _, err := queue.AddBatchConsumer(tag, int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return fmt.Errorf("add consumer %s: %w", tag, err)
		}
	}

	return nil
}

func (c *RedisConsumer) startStatsServer() {
	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)

	mux := http.NewServeMux()
	mux.Handle(endpoint, NewStatsHandler(c.Connection))
	mux.Handle("/health", NewHealthHandler(c.Connection))

	log.Info().Msgf("Stats server listening on http://localhost%s%s", c.StatsListen, endpoint)
	if err := http.ListenAndServe(c.StatsListen, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Stats server stopped")
	}
}
