package performance

import (
	"fmt"
	"math"
)

// Result holds interpolated takeoff or landing distances in feet.
// Available is false when the query touches a chart cell outside the envelope.
type Result struct {
	GroundRollFt float64 `json:"ground_roll_ft"`
	Over50ftFt   float64 `json:"over_50ft_ft"`
	Available    bool    `json:"available"`
}

// Unavailable is the result returned for out-of-envelope queries
var Unavailable = Result{}

// Interpolate estimates the ground roll and 50 ft obstacle distance for the
// given pressure altitude and temperature using bilinear interpolation.
//
// The query is clamped to the chart boundaries on both axes; the chart is
// never extrapolated. If any of the four cells surrounding the query point is
// absent, the result is Unavailable. A nil table is also Unavailable.
func Interpolate(t *Table, pressureAltFt, tempC float64) (Result, error) {
	if t == nil {
		return Unavailable, nil
	}
	if !isFinite(pressureAltFt) || !isFinite(tempC) {
		return Unavailable, fmt.Errorf("%w: altitude=%v temperature=%v", ErrNonFiniteQuery, pressureAltFt, tempC)
	}
	if err := t.Validate(); err != nil {
		return Unavailable, err
	}

	// 1. Clamp to the chart
	alt := clamp(pressureAltFt, t.Altitudes[0], t.Altitudes[len(t.Altitudes)-1])
	temp := clamp(tempC, t.Temperatures[0], t.Temperatures[len(t.Temperatures)-1])

	// 2. Bracket
	ai := bracket(t.Altitudes, alt)
	ti := bracket(t.Temperatures, temp)

	x1, x2 := t.Altitudes[ai-1], t.Altitudes[ai]
	y1, y2 := t.Temperatures[ti-1], t.Temperatures[ti]

	// 3. Corners: Q11 (x1,y1), Q12 (x1,y2), Q21 (x2,y1), Q22 (x2,y2)
	q11 := t.Cells[ai-1][ti-1]
	q12 := t.Cells[ai-1][ti]
	q21 := t.Cells[ai][ti-1]
	q22 := t.Cells[ai][ti]

	if !q11.present || !q12.present || !q21.present || !q22.present {
		return Unavailable, nil
	}

	// 4. Interpolate each channel
	fx := (alt - x1) / (x2 - x1)
	fy := (temp - y1) / (y2 - y1)

	return Result{
		GroundRollFt: bilinear(q11.GroundRoll, q12.GroundRoll, q21.GroundRoll, q22.GroundRoll, fx, fy),
		Over50ftFt:   bilinear(q11.Over50ft, q12.Over50ft, q21.Over50ft, q22.Over50ft, fx, fy),
		Available:    true,
	}, nil
}

// bracket returns the upper index of the grid interval containing v: the
// first grid line >= v, forced to 1 when that is the first line and to the
// last line when v is beyond the grid. v must already be clamped.
func bracket(grid []float64, v float64) int {
	idx := len(grid) - 1
	for i, g := range grid {
		if g >= v {
			idx = i
			break
		}
	}
	if idx == 0 {
		idx = 1
	}
	return idx
}

func bilinear(q11, q12, q21, q22, fx, fy float64) float64 {
	r1 := q11*(1-fx) + q21*fx
	r2 := q12*(1-fx) + q22*fx
	return r1*(1-fy) + r2*fy
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
