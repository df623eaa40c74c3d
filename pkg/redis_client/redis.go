package redis_client

import (
	"context"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/config"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const queueConnectionTag = "transitops"

// Connect sets up the shared redis client and queue connection, retrying the
// initial ping with exponential backoff.
func Connect(ctx context.Context, cfg config.RedisConfig) error {
	options := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.Database,
	}
	if cfg.Password != "" {
		options.Password = cfg.Password
	}

	client := redis.NewClient(options)

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(retryBackoff, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", cfg.Address).Dur("retry", wait).Msg("Redis not ready")
	})
	if err != nil {
		client.Close()
		return fmt.Errorf("connect redis %s: %w", cfg.Address, err)
	}

	return Use(client)
}

// Use installs an already connected client, tests hand in a miniredis backed one.
func Use(client *redis.Client) error {
	errChan := make(chan error, 10)
	go func() {
		for err := range errChan {
			log.Error().Err(err).Msg("Redis queue error")
		}
	}()

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, errChan)
	if err != nil {
		return fmt.Errorf("open queue connection: %w", err)
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", client.Options().Addr).Msg("Redis client setup")

	return nil
}

func Close() {
	if QueueConnection != nil {
		<-QueueConnection.StopAllConsuming()
		QueueConnection = nil
	}

	if Client != nil {
		if err := Client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
		Client = nil
	}
}
