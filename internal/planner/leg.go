package planner

import (
	"time"

	"github.com/yegors/preflight/internal/physics"
)

// Waypoint is a route endpoint. Lat/Lon may be left zero when Ident can be resolved;
// (0, 0) itself counts as no position.
type Waypoint struct {
	Ident string  `json:"ident"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// HasPosition reports whether the waypoint carries coordinates. A waypoint at
// exactly (0, 0) reports false and is resolved by Ident.
func (w Waypoint) HasPosition() bool {
	return w.Lat != 0 || w.Lon != 0
}

// LegInput describes a direct leg flown at a true airspeed through a cruise wind
type LegInput struct {
	From        Waypoint  `json:"from"`
	To          Waypoint  `json:"to"`
	TASKt       float64   `json:"tas_kt"`
	WindDir     float64   `json:"wind_dir"`
	WindSpeed   float64   `json:"wind_speed"`
	CruiseAltFt float64   `json:"cruise_alt_ft"`
	Departure   time.Time `json:"-"`
}

// LegResult is the navigation log line for a leg
type LegResult struct {
	From              string        `json:"from"`
	To                string        `json:"to"`
	DistanceNM        float64       `json:"distance_nm"`
	TrueCourse        float64       `json:"true_course"`
	MagneticVariation float64       `json:"magnetic_variation"`
	MagneticCourse    float64       `json:"magnetic_course"`
	WindCorrection    float64       `json:"wind_correction"`
	TrueHeading       float64       `json:"true_heading"`
	MagneticHeading   float64       `json:"magnetic_heading"`
	GroundSpeedKt     float64       `json:"ground_speed_kt"`
	Solvable          bool          `json:"solvable"`
	ETE               time.Duration `json:"ete_ns"`
	ETEMinutes        float64       `json:"ete_minutes"`
	ETA               *time.Time    `json:"eta,omitempty"`
}

// ComputeLeg derives distance, courses, wind correction, ground speed, ETE and ETA.
// When the wind triangle has no solution (or ground speed is not positive) Solvable
// is false and the time fields are left zero.
func ComputeLeg(in LegInput) LegResult {
	dist, tc := physics.GreatCircle(in.From.Lat, in.From.Lon, in.To.Lat, in.To.Lon)

	// Variation at the departure point, at departure time
	date := in.Departure
	if date.IsZero() {
		date = time.Now().UTC()
	}
	variation := physics.MagneticVariation(in.From.Lat, in.From.Lon, in.CruiseAltFt, date)

	res := LegResult{
		From:              in.From.Ident,
		To:                in.To.Ident,
		DistanceNM:        dist,
		TrueCourse:        tc,
		MagneticVariation: variation,
		MagneticCourse:    physics.TrueToMagnetic(tc, variation),
	}

	wca, gs, ok := physics.WindCorrection(in.TASKt, tc, in.WindDir, in.WindSpeed)
	if !ok || gs <= 0 {
		return res
	}

	res.Solvable = true
	res.WindCorrection = wca
	res.TrueHeading = physics.NormalizeHeading(tc + wca)
	res.MagneticHeading = physics.TrueToMagnetic(res.TrueHeading, variation)
	res.GroundSpeedKt = gs

	hours := dist / gs
	res.ETE = time.Duration(hours * float64(time.Hour))
	res.ETEMinutes = hours * 60
	if !in.Departure.IsZero() {
		eta := in.Departure.Add(res.ETE)
		res.ETA = &eta
	}

	return res
}
