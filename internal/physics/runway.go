package physics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRunway is returned for designators that do not start with a runway number
var ErrInvalidRunway = errors.New("invalid runway designator")

// RunwayHeading returns the nominal heading of a runway designator ("27L" => 270).
// Runway 36 and runway 00 both map to 360.
func RunwayHeading(designator string) (float64, error) {
	d := strings.TrimSpace(strings.ToUpper(designator))
	d = strings.TrimPrefix(d, "RWY")
	d = strings.TrimSpace(d)

	end := 0
	for end < len(d) && end < 2 && d[end] >= '0' && d[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunway, designator)
	}

	switch strings.TrimLeft(d[end:], " ") {
	case "", "L", "R", "C":
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunway, designator)
	}

	n, err := strconv.Atoi(d[:end])
	if err != nil || n > 36 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunway, designator)
	}
	if n == 0 {
		n = 36
	}
	return float64(n * 10), nil
}
