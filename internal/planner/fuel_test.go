package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yegors/preflight/internal/aircraft"
)

var c150nFuel = aircraft.FuelConstants{CruiseGPH: 4.1, TaxiAndStartGal: 0.8, ClimbGal: 0.7, ReserveGal: 2.05}

func TestFuelPolicy_IsNight(t *testing.T) {
	p := DefaultFuelPolicy
	day := func(h, m int) time.Time { return time.Date(2025, 7, 1, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		utc    time.Time
		offset float64
		night  bool
	}{
		{"midday UTC", day(12, 0), 0, false},
		{"Montreal morning", day(14, 0), -4, false},
		{"Montreal evening wraps the date", day(2, 0), -4, true},
		{"first day hour", day(6, 0), 0, false},
		{"first night hour", day(18, 0), 0, true},
		{"last day minute", day(17, 59), 0, false},
		{"half hour offset", day(0, 45), 5.5, false},
		{"early morning", day(5, 59), 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.night, p.IsNight(tc.utc, tc.offset))
		})
	}
}

func TestFuelPlan_DayReserve(t *testing.T) {
	dep := time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)

	res := FuelPlan(c150nFuel, 2, dep, -4, 22.5, DefaultFuelPolicy)

	assert.False(t, res.Night)
	assert.InDelta(t, 8.2, res.CruiseGal, 1e-9)
	assert.InDelta(t, 2.05, res.ReserveGal, 1e-9)
	assert.InDelta(t, 0.8+0.7+8.2+2.05, res.RequiredGal, 1e-9)
	assert.InDelta(t, 22.5-11.75, res.RemainingGal, 1e-9)
	assert.True(t, res.Sufficient)
	assert.InDelta(t, 21.0/4.1, res.EnduranceHours, 1e-9)
}

func TestFuelPlan_NightReserve(t *testing.T) {
	dep := time.Date(2025, 7, 1, 2, 0, 0, 0, time.UTC)

	res := FuelPlan(c150nFuel, 2, dep, -4, 10, DefaultFuelPolicy)

	assert.True(t, res.Night)
	assert.InDelta(t, 4.1*0.75, res.ReserveGal, 1e-9)
	assert.InDelta(t, 0.8+0.7+8.2+3.075, res.RequiredGal, 1e-9)
	assert.Less(t, res.RemainingGal, 0.0)
	assert.False(t, res.Sufficient)
}

func TestFuelPlan_NoCruise(t *testing.T) {
	dep := time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)

	res := FuelPlan(c150nFuel, 0, dep, 0, 0, DefaultFuelPolicy)

	// Matches the fixed-value worksheet: taxi + climb + day reserve
	assert.InDelta(t, 3.55, res.RequiredGal, 1e-9)
	assert.InDelta(t, -3.55, res.RemainingGal, 1e-9)
	assert.Equal(t, 0.0, res.EnduranceHours)
}

func TestFuelPlan_CustomPolicy(t *testing.T) {
	policy := FuelPolicy{DayStartHour: 7, NightStartHour: 20}
	dep := time.Date(2025, 7, 1, 19, 30, 0, 0, time.UTC)

	res := FuelPlan(c150nFuel, 1, dep, 0, 20, policy)
	assert.False(t, res.Night)

	res = FuelPlan(c150nFuel, 1, dep.Add(time.Hour), 0, 20, policy)
	assert.True(t, res.Night)
}
