package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/api"
	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/events"
	"github.com/travigo/transitops/pkg/plancache"
	statscli "github.com/travigo/transitops/pkg/stats/cli"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRANSITOPS_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRANSITOPS_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "transitops",
		Description: "Transit operations engine - network planning, fleet, passengers and bookings",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   config.DefaultPath,
				EnvVars: []string{"TRANSITOPS_CONFIG"},
			},
		},

		Commands: []*cli.Command{
			api.RegisterCLI(),
			events.RegisterCLI(),
			plancache.RegisterCLI(),
			statscli.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
