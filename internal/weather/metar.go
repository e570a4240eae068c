package weather

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HPaToInHg converts hectopascals to inches of mercury
const HPaToInHg = 0.02953

// Altimeter settings above this are in hPa rather than inHg
const hPaThreshold = 800

var (
	reTGroup   = regexp.MustCompile(`T([01])(\d{3})`)
	reTempDewp = regexp.MustCompile(`\s(M)?(\d{2})/(?:M)?\d{2}`)
)

// NormalizeMETAR converts an API observation into planning units.
// Altimeter settings in hPa are converted to inHg, variable or missing wind
// direction reads as 0, missing wind speed as 0 and a missing flight
// category as "UNK".
func NormalizeMETAR(m *METARResponse) *Observation {
	if m == nil {
		return nil
	}

	obs := &Observation{
		Station:     m.IcaoID,
		Raw:         m.RawOb,
		TempC:       m.Temp,
		DewpointC:   m.Dewp,
		WindDir:     m.Wdir.Degrees,
		Visibility:  string(m.Visib),
		FlightRules: m.FltCat,
	}
	if m.ObsTime > 0 {
		obs.ObservedAt = time.Unix(m.ObsTime, 0).UTC()
	}
	if m.Wspd != nil {
		obs.WindSpeed = *m.Wspd
	}
	if obs.FlightRules == "" {
		obs.FlightRules = "UNK"
	}

	if m.Altim != nil {
		alt := *m.Altim
		if alt > hPaThreshold {
			alt *= HPaToInHg
		}
		obs.AltimeterInHg = &alt
	}

	if obs.TempC == nil {
		if t, ok := ParseTemperature(m.RawOb); ok {
			obs.TempC = &t
		}
	}

	return obs
}

// ParseTemperature extracts the temperature in Celsius from a raw METAR string.
// Standard Format: "22/M05" (22°C, Dewpoint -5°C) or "M02/M10" (-2°C / -10°C)
// Also supports RMK T-group: "T00561050" (Precise Temp: 5.6°C)
func ParseTemperature(raw string) (float64, bool) {
	// T s ttt s ddd (s=sign 0=pos,1=neg; ttt=temp*10)
	if idx := strings.Index(raw, "RMK"); idx >= 0 {
		matches := reTGroup.FindStringSubmatch(raw[idx:])
		if len(matches) == 3 {
			val, err := strconv.ParseFloat(matches[2], 64)
			if err == nil {
				val = val / 10.0
				if matches[1] == "1" {
					val = -val
				}
				return val, true
			}
		}
	}

	// Examples: " 22/10", " M03/M05", " 00/M01"
	matches := reTempDewp.FindStringSubmatch(raw)
	if len(matches) == 3 {
		val, err := strconv.ParseFloat(matches[2], 64)
		if err == nil {
			if matches[1] == "M" {
				val = -val
			}
			return val, true
		}
	}

	return 0, false
}

// SelectForecast picks the TAF period containing t (from inclusive, to exclusive),
// falling back to the first period. It returns nil when the TAF has no periods.
func SelectForecast(taf *TAFResponse, t time.Time) *Forecast {
	if taf == nil || len(taf.Fcsts) == 0 {
		return nil
	}

	selected := taf.Fcsts[0]
	ts := t.Unix()
	for _, f := range taf.Fcsts {
		if ts >= f.TimeFrom && ts < f.TimeTo {
			selected = f
			break
		}
	}

	fc := &Forecast{
		Raw:        taf.RawTAF,
		From:       time.Unix(selected.TimeFrom, 0).UTC(),
		To:         time.Unix(selected.TimeTo, 0).UTC(),
		WindDir:    selected.Wdir.Degrees,
		Visibility: string(selected.Visib),
		Clouds:     selected.Clouds,
	}
	if selected.Wspd != nil {
		fc.WindSpeed = *selected.Wspd
	}
	if fc.Clouds == nil {
		fc.Clouds = []Cloud{}
	}
	return fc
}
