package physics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardTemperature(t *testing.T) {
	assert.InDelta(t, 15.0, StandardTemperature(0), 1e-9)
	assert.InDelta(t, 5.1, StandardTemperature(5000), 1e-9)
	assert.InDelta(t, 16.98, StandardTemperature(-1000), 1e-9)
}

func TestPressureAltitude(t *testing.T) {
	assert.InDelta(t, 118.0, PressureAltitude(118, 29.92), 1e-9)
	assert.InDelta(t, 1000.0+120.0, PressureAltitude(1000, 29.80), 1e-6)
	assert.InDelta(t, 1000.0-200.0, PressureAltitude(1000, 30.12), 1e-6)
}

func TestDensityAltitude(t *testing.T) {
	// 30C at sea level is 15C above standard
	assert.InDelta(t, 1800.0, DensityAltitude(0, 30, 15), 1e-9)
	assert.InDelta(t, 5000.0, DensityAltitude(5000, 5.1, 5.1), 1e-9)
}

func TestAtmosphere(t *testing.T) {
	atm := Atmosphere(2000, 29.72, 25)

	assert.InDelta(t, 2200.0, atm.PressureAltitudeFt, 1e-6)
	assert.InDelta(t, 11.04, atm.StandardTempC, 1e-9)
	assert.InDelta(t, 2200.0+120*(25-11.04), atm.DensityAltitudeFt, 1e-6)
	assert.Less(t, atm.StaticPressureHPa, P0)

	std := Atmosphere(0, StdAltimeterInHg, StdSeaLevelTempC)
	assert.InDelta(t, 0.0, std.DensityAltitudeFt, 1e-9)
	assert.InDelta(t, P0, std.StaticPressureHPa, 1e-9)
}

func TestWindComponents(t *testing.T) {
	tests := []struct {
		name      string
		windDir   float64
		windSpeed float64
		heading   float64
		headwind  float64
		crosswind float64
	}{
		{"straight down the runway", 270, 20, 270, 20, 0},
		{"direct crosswind", 180, 20, 270, 0, 20},
		{"crosswind from the right", 360, 20, 270, 0, 20},
		{"tailwind", 90, 10, 270, -10, 0},
		{"across north", 10, 10, 350, 10 * math.Cos(20*math.Pi/180), 10 * math.Sin(20*math.Pi/180)},
		{"calm", 0, 0, 60, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hw, xw := WindComponents(tc.windDir, tc.windSpeed, tc.heading)
			assert.InDelta(t, tc.headwind, hw, 1e-9)
			assert.InDelta(t, tc.crosswind, xw, 1e-9)
			assert.GreaterOrEqual(t, xw, 0.0)
		})
	}
}

func TestAngleDiff(t *testing.T) {
	assert.InDelta(t, 0.0, AngleDiff(360, 0), 1e-9)
	assert.InDelta(t, 20.0, AngleDiff(10, 350), 1e-9)
	assert.InDelta(t, 180.0, AngleDiff(90, 270), 1e-9)
	assert.InDelta(t, 90.0, AngleDiff(720+90, 0), 1e-9)
}

func TestWindCorrection(t *testing.T) {
	t.Run("calm", func(t *testing.T) {
		wca, gs, ok := WindCorrection(100, 90, 0, 0)
		require.True(t, ok)
		assert.InDelta(t, 0.0, wca, 1e-9)
		assert.InDelta(t, 100.0, gs, 1e-9)
	})

	t.Run("pure headwind", func(t *testing.T) {
		wca, gs, ok := WindCorrection(100, 90, 90, 20)
		require.True(t, ok)
		assert.InDelta(t, 0.0, wca, 1e-9)
		assert.InDelta(t, 80.0, gs, 1e-9)
	})

	t.Run("pure tailwind", func(t *testing.T) {
		_, gs, ok := WindCorrection(100, 90, 270, 20)
		require.True(t, ok)
		assert.InDelta(t, 120.0, gs, 1e-9)
	})

	t.Run("crosswind from the right", func(t *testing.T) {
		wca, gs, ok := WindCorrection(100, 0, 90, 20)
		require.True(t, ok)
		want := math.Asin(0.2) * 180 / math.Pi
		assert.InDelta(t, want, wca, 1e-9)
		assert.InDelta(t, 100*math.Cos(math.Asin(0.2)), gs, 1e-9)
	})

	t.Run("crosswind from the left corrects left", func(t *testing.T) {
		wca, _, ok := WindCorrection(100, 0, 270, 20)
		require.True(t, ok)
		assert.Less(t, wca, 0.0)
	})

	t.Run("crosswind stronger than airspeed", func(t *testing.T) {
		_, _, ok := WindCorrection(50, 0, 90, 60)
		assert.False(t, ok)
	})

	t.Run("zero airspeed", func(t *testing.T) {
		_, _, ok := WindCorrection(0, 0, 90, 10)
		assert.False(t, ok)
	})
}

func TestGreatCircle(t *testing.T) {
	t.Run("same point", func(t *testing.T) {
		d, _ := GreatCircle(45.47, -73.74, 45.47, -73.74)
		assert.InDelta(t, 0.0, d, 1e-9)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d, brg := GreatCircle(45, -73, 46, -73)
		assert.InDelta(t, EarthRadiusNM*math.Pi/180, d, 1e-6)
		assert.InDelta(t, 0.0, brg, 1e-9)
	})

	t.Run("due east on the equator", func(t *testing.T) {
		d, brg := GreatCircle(0, 0, 0, 1)
		assert.InDelta(t, EarthRadiusNM*math.Pi/180, d, 1e-6)
		assert.InDelta(t, 90.0, brg, 1e-9)
	})

	t.Run("due south", func(t *testing.T) {
		_, brg := GreatCircle(46, -73, 45, -73)
		assert.InDelta(t, 180.0, brg, 1e-9)
	})

	t.Run("CYUL to CYYZ", func(t *testing.T) {
		d, brg := GreatCircle(45.4705, -73.7408, 43.6772, -79.6306)
		assert.InDelta(t, 273.9, d, 0.5)
		assert.InDelta(t, 248.9, brg, 0.5)
	})
}

func TestNormalizeHeading(t *testing.T) {
	assert.InDelta(t, 350.0, NormalizeHeading(-10), 1e-9)
	assert.InDelta(t, 0.0, NormalizeHeading(360), 1e-9)
	assert.InDelta(t, 45.0, NormalizeHeading(405), 1e-9)
}

func TestMagneticVariation(t *testing.T) {
	assert.InDelta(t, 260.0, TrueToMagnetic(246, -14), 1e-9)
	assert.InDelta(t, 355.0, TrueToMagnetic(5, 10), 1e-9)

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	dec := MagneticVariation(45.4705, -73.7408, 118, date)
	if dec == 0 {
		t.Skip("date outside the magnetic model's validity window")
	}

	// Montreal has a westerly variation of roughly 14 degrees
	assert.InDelta(t, -14.0, dec, 3.0)
}

func TestRunwayHeading(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"27", 270, false},
		{"27L", 270, false},
		{"06R", 60, false},
		{"6", 60, false},
		{"36", 360, false},
		{"00", 360, false},
		{" rwy 24c ", 240, false},
		{"", 0, true},
		{"L", 0, true},
		{"37", 0, true},
		{"27X", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := RunwayHeading(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRunway)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
