package planner

import (
	"math"
	"time"

	"github.com/yegors/preflight/internal/aircraft"
)

// Reserve factors, in hours of cruise burn
const (
	DayReserveHours   = 0.5
	NightReserveHours = 0.75
)

// FuelPolicy decides which local hours count as day for the VFR reserve
type FuelPolicy struct {
	DayStartHour   int // first local hour counted as day
	NightStartHour int // first local hour counted as night
}

// DefaultFuelPolicy treats 06:00-17:59 local as day
var DefaultFuelPolicy = FuelPolicy{DayStartHour: 6, NightStartHour: 18}

// IsNight reports whether a UTC departure falls at night in local time
func (p FuelPolicy) IsNight(departureUTC time.Time, utcOffsetHours float64) bool {
	offset := time.Duration(utcOffsetHours * float64(time.Hour))
	local := departureUTC.UTC().Add(offset)
	h := local.Hour()
	return h < p.DayStartHour || h >= p.NightStartHour
}

// FuelResult is the fuel required for a flight, in US gallons
type FuelResult struct {
	TaxiAndStartGal float64 `json:"taxi_start_gal"`
	ClimbGal        float64 `json:"climb_gal"`
	CruiseGal       float64 `json:"cruise_gal"`
	ReserveGal      float64 `json:"reserve_gal"`
	RequiredGal     float64 `json:"required_gal"`
	OnBoardGal      float64 `json:"on_board_gal"`
	RemainingGal    float64 `json:"remaining_gal"`
	Night           bool    `json:"night"`
	Sufficient      bool    `json:"sufficient"`
	EnduranceHours  float64 `json:"endurance_hours"`
}

// FuelPlan sums taxi, climb, cruise and the day/night VFR reserve.
// Reserve = cruise GPH x 0.5 (day) or 0.75 (night).
func FuelPlan(c aircraft.FuelConstants, cruiseHours float64, departureUTC time.Time, utcOffsetHours, onBoardGal float64, policy FuelPolicy) FuelResult {
	night := policy.IsNight(departureUTC, utcOffsetHours)

	reserveHours := DayReserveHours
	if night {
		reserveHours = NightReserveHours
	}

	cruise := math.Max(cruiseHours, 0) * c.CruiseGPH
	reserve := c.CruiseGPH * reserveHours
	required := c.TaxiAndStartGal + c.ClimbGal + cruise + reserve

	res := FuelResult{
		TaxiAndStartGal: c.TaxiAndStartGal,
		ClimbGal:        c.ClimbGal,
		CruiseGal:       cruise,
		ReserveGal:      reserve,
		RequiredGal:     required,
		OnBoardGal:      onBoardGal,
		RemainingGal:    onBoardGal - required,
		Night:           night,
		Sufficient:      onBoardGal >= required,
	}
	if c.CruiseGPH > 0 {
		res.EnduranceHours = math.Max(onBoardGal-c.TaxiAndStartGal-c.ClimbGal, 0) / c.CruiseGPH
	}
	return res
}
