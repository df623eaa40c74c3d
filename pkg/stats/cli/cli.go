package cli

import (
	"encoding/json"
	"fmt"

	"github.com/kr/pretty"
	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/datastore"
	"github.com/travigo/transitops/pkg/engine"
	"github.com/travigo/transitops/pkg/stats/calculator"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Prints fleet, booking and network statistics from the data files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print JSON instead of the pretty printed structure",
			},
		},
		Subcommands: []*cli.Command{
			statsCommand("fleet", "fleet statistics", func(e *engine.Engine) any { return calculator.GetFleet(e) }),
			statsCommand("bookings", "booking ledger statistics", func(e *engine.Engine) any { return calculator.GetBookings(e) }),
			statsCommand("network", "network graph statistics", func(e *engine.Engine) any { return calculator.GetNetwork(e) }),
			statsCommand("all", "every statistic", func(e *engine.Engine) any {
				return map[string]any{
					"fleet":    calculator.GetFleet(e),
					"bookings": calculator.GetBookings(e),
					"network":  calculator.GetNetwork(e),
				}
			}),
		},
	}
}

func statsCommand(name string, usage string, calculate func(*engine.Engine) any) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			transitEngine, _, err := datastore.Open(c.Context, cfg)
			if err != nil {
				return err
			}

			result := calculator.RecordStatsData{
				Type:      name,
				Stats:     calculate(transitEngine),
				Timestamp: transitEngine.Now(),
			}

			if c.Bool("json") {
				output, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, string(output))
				return nil
			}

			_, err = pretty.Fprintf(c.App.Writer, "%# v\n", result)
			return err
		},
	}
}
