package aircraft

import (
	"fmt"

	"github.com/yegors/preflight/internal/performance"
)

// Model is a single aircraft type with its performance charts, fuel planning
// constants and weight & balance geometry. Sub-records are pointers because
// user supplied models may be partial; a missing sub-record reads as not found.
type Model struct {
	Code          string         `json:"-"`
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Performance   *Performance   `json:"performance,omitempty"`
	Fuel          *FuelConstants `json:"fuel,omitempty"`
	WeightBalance *WeightBalance `json:"weightBalance,omitempty"`
}

// Performance holds the takeoff and landing distance charts
type Performance struct {
	Takeoff *performance.Table `json:"takeoff,omitempty"`
	Landing *performance.Table `json:"landing,omitempty"`
}

// FuelConstants are the linear fuel burn terms used in fuel planning (US gallons, gal/h)
type FuelConstants struct {
	CruiseGPH       float64 `json:"gph"`
	TaxiAndStartGal float64 `json:"taxiStart"`
	ClimbGal        float64 `json:"climb"`
	ReserveGal      float64 `json:"reserve"`
}

// WeightBalance holds loading station arms and certified limits
type WeightBalance struct {
	Arms   Arms   `json:"arms"`
	Limits Limits `json:"limits"`
}

// Arms are station arms in inches aft of datum
type Arms struct {
	Empty      float64 `json:"empty"`
	FrontSeats float64 `json:"front"`
	RearSeats  float64 `json:"back"`
	FuelTank   float64 `json:"fuel"`
	Baggage    float64 `json:"baggage"`
}

// Limits are weights in pounds and the CG envelope in inches
type Limits struct {
	MaxWeight float64 `json:"maxWeight"`
	MinWeight float64 `json:"minWeight"`
	CGRange   CGRange `json:"cgRange"`
}

// CGRange is the forward and aft CG limit
type CGRange struct {
	Forward float64 `json:"forward"`
	Aft     float64 `json:"aft"`
}

// Summary is the listing view of a model
type Summary struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Clone returns a deep copy of the model
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}

	c := *m
	if m.Performance != nil {
		c.Performance = m.Performance.Clone()
	}
	if m.Fuel != nil {
		fuel := *m.Fuel
		c.Fuel = &fuel
	}
	if m.WeightBalance != nil {
		wb := *m.WeightBalance
		c.WeightBalance = &wb
	}
	return &c
}

// Clone returns a deep copy of both charts
func (p *Performance) Clone() *Performance {
	if p == nil {
		return nil
	}
	return &Performance{
		Takeoff: p.Takeoff.Clone(),
		Landing: p.Landing.Clone(),
	}
}

// Summary returns the listing view of the model
func (m *Model) Summary() Summary {
	return Summary{Code: m.Code, Name: m.Name, Category: m.Category}
}

// Validate checks every chart the model carries. Missing sub-records are allowed.
func (m *Model) Validate() error {
	if m.Performance == nil {
		return nil
	}
	if m.Performance.Takeoff != nil {
		if err := m.Performance.Takeoff.Validate(); err != nil {
			return fmt.Errorf("takeoff chart: %w", err)
		}
	}
	if m.Performance.Landing != nil {
		if err := m.Performance.Landing.Validate(); err != nil {
			return fmt.Errorf("landing chart: %w", err)
		}
	}
	return nil
}
