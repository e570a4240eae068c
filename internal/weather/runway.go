package weather

import (
	"math"

	"github.com/yegors/preflight/internal/physics"
)

// BestRunway picks the runway most aligned into the wind, i.e. the one with the
// largest cos(windDir - heading). Ties keep the first runway listed. Runways with
// unparseable designators are skipped.
func BestRunway(windDir float64, runways []Runway) (Runway, bool) {
	var best Runway
	found := false
	maxHeadwind := math.Inf(-1)

	for _, r := range runways {
		heading, err := physics.RunwayHeading(r.ID)
		if err != nil {
			continue
		}
		headwind := math.Cos((windDir - heading) * math.Pi / 180)
		if headwind > maxHeadwind {
			maxHeadwind = headwind
			best = r
			found = true
		}
	}

	return best, found
}
