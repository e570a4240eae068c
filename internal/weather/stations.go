package weather

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FeetPerMeter converts airport elevations reported in meters
const FeetPerMeter = 3.28084

var reLeadingDigits = regexp.MustCompile(`^(\d+)`)

// stationDB is the built-in fallback for airports when the airport endpoint is unreachable
var stationDB = map[string]Station{
	"CYUL": {Name: "Montreal/Trudeau", ElevationFt: 118, Lat: 45.4705, Lon: -73.7408, Runways: runwayIDs("06L", "06R", "24L", "24R", "10", "28")},
	"CYYZ": {Name: "Toronto/Pearson", ElevationFt: 569, Lat: 43.6772, Lon: -79.6306, Runways: runwayIDs("05", "23", "06L", "06R", "24L", "24R", "15L", "15R", "33L", "33R")},
	"CYVR": {Name: "Vancouver", ElevationFt: 14, Lat: 49.1947, Lon: -123.1841, Runways: runwayIDs("08L", "08R", "26L", "26R", "13", "31")},
	"CYOW": {Name: "Ottawa", ElevationFt: 374, Lat: 45.3225, Lon: -75.6672, Runways: runwayIDs("07", "25", "14", "32")},
	"CYQB": {Name: "Quebec City", ElevationFt: 244, Lat: 46.7911, Lon: -71.3933, Runways: runwayIDs("06", "24", "11", "29")},
	"CYHU": {Name: "St-Hubert", ElevationFt: 90, Lat: 45.5175, Lon: -73.4169, Runways: runwayIDs("06L", "06R", "24L", "24R", "10", "28")},
	"CYMX": {Name: "Mirabel", ElevationFt: 270, Lat: 45.6797, Lon: -74.0053, Runways: runwayIDs("06", "24", "11", "29")},
	"KZLA": {Name: "Los Angeles", ElevationFt: 128, Lat: 33.9425, Lon: -118.4081, Runways: runwayIDs("06", "07L", "07R", "24", "25L", "25R")},
	"KJFK": {Name: "JFK", ElevationFt: 13, Lat: 40.6413, Lon: -73.7781, Runways: runwayIDs("04L", "04R", "22L", "22R", "13L", "13R", "31L", "31R")},
}

func runwayIDs(ids ...string) []Runway {
	runways := make([]Runway, len(ids))
	for i, id := range ids {
		runways[i] = Runway{ID: id}
	}
	return runways
}

// NormalizeIdent upper-cases and trims an airport identifier
func NormalizeIdent(ident string) string {
	return strings.ToUpper(strings.TrimSpace(ident))
}

// LookupStation returns the built-in data for an airport
func LookupStation(ident string) (Station, bool) {
	ident = NormalizeIdent(ident)
	st, ok := stationDB[ident]
	if !ok {
		return Station{}, false
	}
	st.Ident = ident
	st.Source = "fallback"
	st.Runways = append([]Runway(nil), st.Runways...)
	return st, true
}

// StationFromAirport converts an airport endpoint response. Missing fields are
// filled from the built-in data where available. Runway pairs such as
// "06L/24R" become one entry per end, sharing the pair's length.
func StationFromAirport(a *AirportResponse) Station {
	ident := NormalizeIdent(a.IcaoID)
	local, _ := LookupStation(ident)

	st := Station{
		Ident:  ident,
		Name:   a.Name,
		Lat:    a.Lat,
		Lon:    a.Lon,
		Source: "api",
	}
	if st.Name == "" {
		st.Name = local.Name
	}
	if st.Name == "" {
		st.Name = ident
	}
	// The airport endpoint reports a missing position as (0, 0)
	if st.Lat == 0 && st.Lon == 0 {
		st.Lat, st.Lon = local.Lat, local.Lon
	}

	if a.Elev != nil {
		st.ElevationFt = math.Round(*a.Elev * FeetPerMeter)
	} else {
		st.ElevationFt = local.ElevationFt
	}

	for _, r := range a.Runways {
		if r.ID == "" {
			continue
		}
		length := 0
		if m := reLeadingDigits.FindStringSubmatch(r.Dimension); m != nil {
			length, _ = strconv.Atoi(m[1])
		}
		for _, end := range strings.Split(r.ID, "/") {
			st.Runways = append(st.Runways, Runway{ID: strings.TrimSpace(end), LengthFt: length})
		}
	}
	if len(st.Runways) == 0 {
		st.Runways = local.Runways
	}
	if st.Runways == nil {
		st.Runways = []Runway{}
	}

	return st
}
