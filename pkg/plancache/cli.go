package plancache

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/datastore"
	"github.com/travigo/transitops/pkg/networkgraph"
	"github.com/travigo/transitops/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Finds the best path between two stops",
		ArgsUsage: "<origin> <destination>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "criteria",
				Usage: "time, distance, fare or transfers",
				Value: string(networkgraph.CriteriaTime),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "print the full result structure",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("plan needs an origin and a destination stop", 1)
			}

			criteria, err := networkgraph.ParseCriteria(c.String("criteria"))
			if err != nil {
				return err
			}

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			transitEngine, _, err := datastore.Open(c.Context, cfg)
			if err != nil {
				return err
			}

			var result networkgraph.PathResult
			if cfg.Redis.Enabled {
				if err := redis_client.Connect(c.Context, cfg.Redis); err != nil {
					return err
				}
				defer redis_client.Close()

				result, err = New(redis_client.Client, transitEngine, cfg.Redis.CacheTTL).ShortestPath(c.Context, c.Args().Get(0), c.Args().Get(1), criteria)
			} else {
				log.Debug().Msg("Redis not configured, planning without cache")
				result, err = transitEngine.ShortestPath(c.Args().Get(0), c.Args().Get(1), criteria)
			}
			if err != nil {
				return err
			}

			if c.Bool("debug") {
				pretty.Fprintf(c.App.Writer, "%# v\n", result)
				return nil
			}

			fmt.Fprintf(c.App.Writer, "%s\n", strings.Join(result.Path, " -> "))
			fmt.Fprintf(c.App.Writer, "distance %.2f km, time %.0f min, fare %.2f, transfers %d\n",
				result.TotalDistance, result.TotalTime, result.TotalFare, result.Transfers)

			return nil
		},
	}
}
