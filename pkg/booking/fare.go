package booking

import (
	"math"

	"github.com/travigo/transitops/pkg/ctdf"
)

const (
	DefaultBaseFare   = 50.0
	DefaultPerHopRate = 10.0
)

type Pricing struct {
	BaseFare    float64
	PerHopRate  float64
	Multipliers map[ctdf.BusType]float64
}

func DefaultPricing() Pricing {
	return Pricing{
		BaseFare:   DefaultBaseFare,
		PerHopRate: DefaultPerHopRate,
	}
}

// Fare is the base fare plus a rate per stop travelled, scaled by the bus type, in cents precision.
func (p Pricing) Fare(busType ctdf.BusType, hops int) float64 {
	multiplier, ok := p.Multipliers[busType]
	if !ok {
		multiplier = busType.FareMultiplier()
	}

	fare := (p.BaseFare + float64(hops)*p.PerHopRate) * multiplier

	return math.Round(fare*100) / 100
}
