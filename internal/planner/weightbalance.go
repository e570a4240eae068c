package planner

import (
	"github.com/yegors/preflight/internal/aircraft"
)

// FuelWeightPerGal is avgas weight in lb per US gallon
const FuelWeightPerGal = 6.0

// Loading is what goes into the aircraft, in pounds (fuel in gallons)
type Loading struct {
	EmptyWeight float64  `json:"empty_weight"`
	EmptyArm    *float64 `json:"empty_arm,omitempty"` // overrides the model's empty arm
	FrontSeats  float64  `json:"front_seats"`
	RearSeats   float64  `json:"rear_seats"`
	Baggage     float64  `json:"baggage"`
	FuelGal     float64  `json:"fuel_gal"`
}

// Station is one line of the loading sheet
type Station struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Arm    float64 `json:"arm"`
	Moment float64 `json:"moment"`
}

// WeightBalanceResult is the loading sheet with totals and limit checks
type WeightBalanceResult struct {
	Stations      []Station `json:"stations"`
	TotalWeight   float64   `json:"total_weight"`
	TotalMoment   float64   `json:"total_moment"`
	CG            float64   `json:"cg"`
	OverweightBy  float64   `json:"overweight_by,omitempty"`
	WithinWeight  bool      `json:"within_weight"`
	WithinCGRange bool      `json:"within_cg_range"`
}

// WithinLimits reports whether both the weight and CG checks pass
func (r WeightBalanceResult) WithinLimits() bool {
	return r.WithinWeight && r.WithinCGRange
}

// ComputeWeightBalance builds the loading sheet for a model's geometry.
// CG is 0 when the total weight is 0.
func ComputeWeightBalance(wb aircraft.WeightBalance, load Loading) WeightBalanceResult {
	emptyArm := wb.Arms.Empty
	if load.EmptyArm != nil {
		emptyArm = *load.EmptyArm
	}

	stations := []Station{
		newStation("empty", load.EmptyWeight, emptyArm),
		newStation("front", load.FrontSeats, wb.Arms.FrontSeats),
		newStation("rear", load.RearSeats, wb.Arms.RearSeats),
		newStation("baggage", load.Baggage, wb.Arms.Baggage),
		newStation("fuel", load.FuelGal*FuelWeightPerGal, wb.Arms.FuelTank),
	}

	res := WeightBalanceResult{Stations: stations}
	for _, s := range stations {
		res.TotalWeight += s.Weight
		res.TotalMoment += s.Moment
	}
	if res.TotalWeight != 0 {
		res.CG = res.TotalMoment / res.TotalWeight
	}

	lim := wb.Limits
	res.WithinWeight = res.TotalWeight <= lim.MaxWeight && res.TotalWeight >= lim.MinWeight
	if res.TotalWeight > lim.MaxWeight {
		res.OverweightBy = res.TotalWeight - lim.MaxWeight
	}
	res.WithinCGRange = res.CG >= lim.CGRange.Forward && res.CG <= lim.CGRange.Aft

	return res
}

func newStation(name string, weight, arm float64) Station {
	return Station{Name: name, Weight: weight, Arm: arm, Moment: weight * arm}
}
