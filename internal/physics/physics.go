package physics

import (
	"math"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
)

// Constants
const (
	R                = 287.058 // Specific gas constant for dry air (J/(kg·K))
	G                = 9.80665 // Gravity (m/s^2)
	T0               = 288.15  // Standard Sea Level Temperature (K)
	P0               = 1013.25 // Standard Sea Level Pressure (hPa)
	L                = 0.0065  // Temperature Lapse Rate (K/m) in Troposphere
	FeetToMeters     = 0.3048  // Conversion factor from feet to meters
	StdAltimeterInHg = 29.92   // Standard altimeter setting (inHg)
	StdSeaLevelTempC = 15.0    // Sea level temperature used for standard temperature (°C)
	LapseRatePer1000 = 1.98    // Standard temperature lapse (°C per 1000 ft)

	// DensityAltitudeFactor is the feet of density altitude per °C of deviation from standard
	DensityAltitudeFactor = 120.0

	// ISA Layer Boundaries
	TropopauseAltM    = 11000.0 // 11 km
	StratosphereTempK = 216.65  // Constant temperature in Stratosphere
	TropopausePress   = 226.32  // Pressure at Tropopause (hPa)
)

// StandardTemperature returns the standard temperature (°C) at an altitude in feet
func StandardTemperature(altitudeFt float64) float64 {
	return StdSeaLevelTempC - LapseRatePer1000*(altitudeFt/1000)
}

// PressureAltitude returns pressure altitude in feet from indicated altitude and altimeter setting
func PressureAltitude(indicatedAltFt, altimeterInHg float64) float64 {
	return (StdAltimeterInHg-altimeterInHg)*1000 + indicatedAltFt
}

// DensityAltitude returns density altitude in feet
// DA = PA + 120 * (OAT - StdTemp)
func DensityAltitude(pressureAltFt, oatCelsius, stdTempCelsius float64) float64 {
	return pressureAltFt + DensityAltitudeFactor*(oatCelsius-stdTempCelsius)
}

// AtmosphereState is the derived atmosphere at a field or altitude
type AtmosphereState struct {
	PressureAltitudeFt float64 `json:"pressure_altitude_ft"`
	DensityAltitudeFt  float64 `json:"density_altitude_ft"`
	StandardTempC      float64 `json:"standard_temp_c"`
	StaticPressureHPa  float64 `json:"static_pressure_hpa"`
}

// Atmosphere derives pressure altitude, standard temperature and density altitude.
// The standard temperature is taken at the indicated altitude.
func Atmosphere(indicatedAltFt, altimeterInHg, oatCelsius float64) AtmosphereState {
	pa := PressureAltitude(indicatedAltFt, altimeterInHg)
	std := StandardTemperature(indicatedAltFt)
	return AtmosphereState{
		PressureAltitudeFt: pa,
		DensityAltitudeFt:  DensityAltitude(pa, oatCelsius, std),
		StandardTempC:      std,
		StaticPressureHPa:  AltitudeToPressure(pa),
	}
}

// AltitudeToPressure converts pressure altitude in feet to pressure in hPa
// Uses Standard Atmosphere model, supporting Troposphere and Stratosphere (up to 20km approx)
func AltitudeToPressure(altFt float64) float64 {
	altM := altFt * FeetToMeters
	if altM < 0 {
		altM = 0
	}

	if altM <= TropopauseAltM {
		// P = P0 * (1 - L*h/T0)^(g/RL)
		exponent := G / (R * L)
		base := 1 - (L * altM / T0)
		return P0 * math.Pow(base, exponent)
	}

	// P = P_trop * exp( -g*(h - h_trop) / (R * T_strat) )
	relAlt := altM - TropopauseAltM
	exponent := -(G * relAlt) / (R * StratosphereTempK)
	return TropopausePress * math.Exp(exponent)
}

// ------------------------------------------------------------------------------------------------
// NAVIGATION PHYSICS
// ------------------------------------------------------------------------------------------------

// AngleDiff returns the absolute difference between two directions, folded into [0, 180]
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// WindComponents returns the headwind (negative = tailwind) and crosswind (always >= 0)
// components of a wind relative to a runway or track heading
func WindComponents(windDirDeg, windSpeedKt, headingDeg float64) (headwind, crosswind float64) {
	rad := AngleDiff(windDirDeg, headingDeg) * math.Pi / 180
	headwind = windSpeedKt * math.Cos(rad)
	crosswind = math.Abs(windSpeedKt * math.Sin(rad))
	return headwind, crosswind
}

// WindCorrection solves the wind triangle for a true airspeed flown along a course.
// wcaDeg is positive for a correction to the right. ok is false when the crosswind
// component exceeds the true airspeed and no heading holds the course.
func WindCorrection(tasKt, courseDeg, windDirDeg, windSpeedKt float64) (wcaDeg, groundSpeedKt float64, ok bool) {
	if tasKt <= 0 {
		return 0, 0, false
	}

	rel := (windDirDeg - courseDeg) * math.Pi / 180
	crosswind := windSpeedKt * math.Sin(rel) // + from the right
	headwind := windSpeedKt * math.Cos(rel)

	if math.Abs(crosswind) > tasKt {
		return 0, 0, false
	}

	wca := math.Asin(crosswind / tasKt)
	return wca * 180 / math.Pi, tasKt*math.Cos(wca) - headwind, true
}

// NormalizeHeading wraps a direction into [0, 360)
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ------------------------------------------------------------------------------------------------
// GREAT CIRCLE
// ------------------------------------------------------------------------------------------------

// EarthRadiusNM is the spherical earth radius used for route distances
const EarthRadiusNM = 3440.065

// GreatCircle returns the haversine distance (nm) and initial true bearing (degrees)
// from the first point to the second
func GreatCircle(lat1, lon1, lat2, lon2 float64) (distanceNM, bearingDeg float64) {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	distanceNM = EarthRadiusNM * c

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearingDeg = NormalizeHeading(math.Atan2(y, x) * 180 / math.Pi)

	return distanceNM, bearingDeg
}

// MagneticVariation calculates the magnetic declination for a given position and time
// Returns declination in degrees (+East, -West)
func MagneticVariation(lat, lon, altFt float64, date time.Time) float64 {
	altM := altFt * FeetToMeters

	loc := egm96.NewLocationGeodetic(lat, lon, altM)

	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		// Outside the model's validity window
		return 0.0
	}

	return mag.D()
}

// TrueToMagnetic converts a true direction to magnetic given an east-positive variation
func TrueToMagnetic(trueDeg, variationDeg float64) float64 {
	return NormalizeHeading(trueDeg - variationDeg)
}
