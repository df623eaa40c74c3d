package config

import (
	"time"

	"github.com/travigo/transitops/pkg/scheduling"
)

type DataConfig struct {
	Directory string `yaml:"directory" validate:"required"`
	Routes    string `yaml:"routes" validate:"required"`
	Fleet     string `yaml:"fleet" validate:"required"`
	Tickets   string `yaml:"tickets" validate:"required"`
	StopsCSV  string `yaml:"stops_csv"`
}

type PricingConfig struct {
	BaseFare    float64            `yaml:"base_fare" validate:"gte=0"`
	PerHopRate  float64            `yaml:"per_hop_rate" validate:"gte=0"`
	PerKmRate   float64            `yaml:"per_km_rate" validate:"gte=0"`
	Multipliers map[string]float64 `yaml:"multipliers" validate:"dive,keys,oneof=regular air_conditioned luxury,endkeys,gt=0"`
}

type PlannerConfig struct {
	TransferPenalty  float64 `yaml:"transfer_penalty" validate:"gte=0"`
	TransferTiebreak float64 `yaml:"transfer_tiebreak" validate:"gte=0"`
	MaxDepth         int     `yaml:"max_depth" validate:"gt=0"`
}

type SchedulingConfig struct {
	HopOverheadMinutes int                       `yaml:"hop_overhead_minutes" validate:"gte=0"`
	Weekday            scheduling.WindowDefaults `yaml:"weekday"`
	Weekend            scheduling.WindowDefaults `yaml:"weekend"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	Database int           `yaml:"database" validate:"gte=0"`
	CacheTTL time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	Queue    string        `yaml:"queue" validate:"required_if=Enabled true"`
}

type APIConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

// Config is the root of transitops.yaml
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Planner    PlannerConfig    `yaml:"planner"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
}
