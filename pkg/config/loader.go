package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/booking"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/engine"
	"github.com/travigo/transitops/pkg/networkgraph"
	"github.com/travigo/transitops/pkg/scheduling"
	"github.com/travigo/transitops/pkg/util"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "transitops.yaml"

func Default() Config {
	calendar := scheduling.DefaultCalendar()

	return Config{
		Data: DataConfig{
			Directory: "data",
			Routes:    "routes.json",
			Fleet:     "buses.json",
			Tickets:   "tickets.json",
		},
		Pricing: PricingConfig{
			BaseFare:   booking.DefaultBaseFare,
			PerHopRate: booking.DefaultPerHopRate,
			PerKmRate:  networkgraph.DefaultFarePerKm,
		},
		Planner: PlannerConfig{
			TransferPenalty:  networkgraph.DefaultTransferPenalty,
			TransferTiebreak: networkgraph.DefaultTransferTiebreak,
			MaxDepth:         engine.DefaultMaxPathDepth,
		},
		Scheduling: SchedulingConfig{
			HopOverheadMinutes: scheduling.DefaultHopOverheadMinutes,
			Weekday:            calendar.Weekday,
			Weekend:            calendar.Weekend,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			CacheTTL: 90 * time.Minute,
			Queue:    "booking-events",
		},
		API: APIConfig{
			Listen: ":8080",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies TRANSITOPS_ environment
// overrides and validates the result. A missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug().Str("path", path).Msg("No config file, using defaults")
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvironment(&cfg, util.GetEnvironmentVariables()); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Validate(cfg Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, clock := range []string{cfg.Scheduling.Weekday.StartTime, cfg.Scheduling.Weekday.EndTime, cfg.Scheduling.Weekend.StartTime, cfg.Scheduling.Weekend.EndTime} {
		if _, err := scheduling.ParseClock(clock); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}

	return nil
}

func applyEnvironment(cfg *Config, env map[string]string) error {
	if env["TRANSITOPS_DATA_DIR"] != "" {
		cfg.Data.Directory = env["TRANSITOPS_DATA_DIR"]
	}

	if env["TRANSITOPS_LISTEN"] != "" {
		cfg.API.Listen = env["TRANSITOPS_LISTEN"]
	}

	redisEnv := util.EnvironmentWithPrefix(env, "TRANSITOPS_REDIS_")

	if redisEnv["ADDRESS"] != "" {
		cfg.Redis.Address = redisEnv["ADDRESS"]
		cfg.Redis.Enabled = true
	}

	if redisEnv["PASSWORD"] != "" {
		cfg.Redis.Password = redisEnv["PASSWORD"]
	}

	if redisEnv["DATABASE"] != "" {
		n, err := strconv.Atoi(redisEnv["DATABASE"])
		if err != nil {
			return fmt.Errorf("TRANSITOPS_REDIS_DATABASE: %w", err)
		}
		cfg.Redis.Database = n
	}

	return nil
}

func (c DataConfig) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(c.Directory, name)
}

func (c DataConfig) RoutesPath() string   { return c.path(c.Routes) }
func (c DataConfig) FleetPath() string    { return c.path(c.Fleet) }
func (c DataConfig) TicketsPath() string  { return c.path(c.Tickets) }
func (c DataConfig) StopsCSVPath() string { return c.path(c.StopsCSV) }

// EngineOptions translates the configuration into engine construction options.
func (c Config) EngineOptions() engine.Options {
	options := engine.DefaultOptions()

	options.Pricing = booking.Pricing{
		BaseFare:    c.Pricing.BaseFare,
		PerHopRate:  c.Pricing.PerHopRate,
		Multipliers: map[ctdf.BusType]float64{},
	}
	for busType, multiplier := range c.Pricing.Multipliers {
		options.Pricing.Multipliers[ctdf.BusType(busType)] = multiplier
	}

	options.Calendar = scheduling.Defaults{
		Weekday: c.Scheduling.Weekday,
		Weekend: c.Scheduling.Weekend,
	}
	options.HopOverheadMinutes = c.Scheduling.HopOverheadMinutes

	options.FarePerKm = c.Pricing.PerKmRate
	options.TransferPenalty = c.Planner.TransferPenalty
	options.TransferTiebreak = c.Planner.TransferTiebreak
	options.MaxPathDepth = c.Planner.MaxDepth

	return options
}
