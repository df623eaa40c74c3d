package events

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/consumer"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the booking events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "consume and log booking events",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Usage: "address of the queue stats server",
						Value: ":3333",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := redis_client.Connect(c.Context, cfg.Redis); err != nil {
						return err
					}
					defer redis_client.Close()

					redisConsumer := consumer.RedisConsumer{
						Connection:      redis_client.QueueConnection,
						QueueName:       cfg.Redis.Queue,
						NumberConsumers: 2,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(LogEvent),
						StatsListen:     c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					log.Info().Msg("Stopping consumers")

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test booking event",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := redis_client.Connect(c.Context, cfg.Redis); err != nil {
						return err
					}
					defer redis_client.Close()

					publisher, err := NewPublisher(redis_client.QueueConnection, cfg.Redis.Queue)
					if err != nil {
						return err
					}

					return publisher.Publish(TicketEvent(EventTypeTicketBooked, ctdf.Ticket{
						TicketID:      "TKT000000",
						PassengerName: "Test Passenger",
						FromStop:      "A",
						ToStop:        "B",
					}, time.Now()))
				},
			},
		},
	}
}
