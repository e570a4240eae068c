package planner

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cyul = Waypoint{Ident: "CYUL", Lat: 45.4705, Lon: -73.7408}
	cyyz = Waypoint{Ident: "CYYZ", Lat: 43.6772, Lon: -79.6306}
)

func TestComputeLeg_NoWind(t *testing.T) {
	dep := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	leg := ComputeLeg(LegInput{From: cyul, To: cyyz, TASKt: 100, CruiseAltFt: 4500, Departure: dep})

	require.True(t, leg.Solvable)
	assert.Equal(t, "CYUL", leg.From)
	assert.Equal(t, "CYYZ", leg.To)
	assert.InDelta(t, 273.9, leg.DistanceNM, 0.5)
	assert.InDelta(t, 248.9, leg.TrueCourse, 0.5)
	assert.InDelta(t, 0.0, leg.WindCorrection, 1e-9)
	assert.InDelta(t, leg.TrueCourse, leg.TrueHeading, 1e-9)
	assert.InDelta(t, 100.0, leg.GroundSpeedKt, 1e-9)
	assert.InDelta(t, leg.DistanceNM/100*60, leg.ETEMinutes, 1e-6)

	require.NotNil(t, leg.ETA)
	assert.WithinDuration(t, dep.Add(leg.ETE), *leg.ETA, time.Millisecond)

	wantMag := math.Mod(leg.TrueCourse-leg.MagneticVariation+360, 360)
	assert.InDelta(t, wantMag, leg.MagneticCourse, 1e-9)
}

func TestComputeLeg_Headwind(t *testing.T) {
	leg := ComputeLeg(LegInput{From: cyyz, To: cyul, TASKt: 100, WindDir: 0, WindSpeed: 0})
	calm := leg.ETE

	// Wind straight on the nose along the course
	leg = ComputeLeg(LegInput{From: cyyz, To: cyul, TASKt: 100, WindDir: leg.TrueCourse, WindSpeed: 20})
	require.True(t, leg.Solvable)
	assert.InDelta(t, 80.0, leg.GroundSpeedKt, 1e-9)
	assert.Greater(t, leg.ETE, calm)
	assert.Nil(t, leg.ETA)
}

func TestComputeLeg_NoSolution(t *testing.T) {
	leg := ComputeLeg(LegInput{From: cyul, To: cyyz, TASKt: 30, WindDir: 340, WindSpeed: 60})

	assert.False(t, leg.Solvable)
	assert.Greater(t, leg.DistanceNM, 0.0)
	assert.Zero(t, leg.ETE)
	assert.Zero(t, leg.GroundSpeedKt)
}

func TestWaypoint_HasPosition(t *testing.T) {
	assert.True(t, cyul.HasPosition())
	assert.False(t, Waypoint{Ident: "CYUL"}.HasPosition())

	// Only the exact origin counts as missing
	assert.False(t, Waypoint{Ident: "NULL", Lat: 0, Lon: 0}.HasPosition())
	assert.True(t, Waypoint{Lat: 0, Lon: -73.7}.HasPosition())
	assert.True(t, Waypoint{Lat: 45.5, Lon: 0}.HasPosition())
}
