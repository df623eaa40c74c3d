package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/api/routes"
	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/datastore"
	"github.com/travigo/transitops/pkg/events"
	"github.com/travigo/transitops/pkg/plancache"
	"github.com/travigo/transitops/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Provides the transit operations web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides the config file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					transitEngine, store, err := datastore.Open(c.Context, cfg)
					if err != nil {
						return err
					}

					services := &routes.Services{
						Engine:  transitEngine,
						Planner: routes.EnginePlanner{Engine: transitEngine},
						Events:  events.Discard{},
						Store:   store,
					}

					if cfg.Redis.Enabled {
						if err := redis_client.Connect(c.Context, cfg.Redis); err != nil {
							return err
						}
						defer redis_client.Close()

						services.Planner = plancache.New(redis_client.Client, transitEngine, cfg.Redis.CacheTTL)

						publisher, err := events.NewPublisher(redis_client.QueueConnection, cfg.Redis.Queue)
						if err != nil {
							return err
						}
						services.Events = publisher
					} else {
						log.Info().Msg("Skipping Redis setup, plans are not cached and events are not published")
					}

					listen := cfg.API.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					log.Info().Str("listen", listen).Msg("Starting web api")

					return SetupServer(listen, services)
				},
			},
		},
	}
}
