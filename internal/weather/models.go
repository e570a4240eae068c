package weather

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Config represents the weather service configuration
type Config struct {
	APIBaseURL             string   `toml:"api_base_url"`
	RequestTimeoutSeconds  int      `toml:"request_timeout_seconds"`
	MaxRetries             int      `toml:"max_retries"`
	FetchMETAR             bool     `toml:"fetch_metar"`
	FetchTAF               bool     `toml:"fetch_taf"`
	CacheExpiryMinutes     int      `toml:"cache_expiry_minutes"`
	CacheSize              int      `toml:"cache_size"`
	RefreshIntervalMinutes int      `toml:"refresh_interval_minutes"`
	WatchStations          []string `toml:"watch_stations"`
}

// DefaultConfig returns the default weather configuration
func DefaultConfig() Config {
	return Config{
		APIBaseURL:             "https://aviationweather.gov/api/data",
		RequestTimeoutSeconds:  10,
		MaxRetries:             2,
		FetchMETAR:             true,
		FetchTAF:               true,
		CacheExpiryMinutes:     10,
		CacheSize:              128,
		RefreshIntervalMinutes: 10,
	}
}

// WeatherType represents the type of weather data
type WeatherType string

const (
	WeatherTypeMETAR   WeatherType = "metar"
	WeatherTypeTAF     WeatherType = "taf"
	WeatherTypeStation WeatherType = "airport"
)

// WindDirection is a reported wind direction in degrees true. The API reports
// either a number or "VRB"; variable and missing directions decode as 0.
type WindDirection struct {
	Degrees  float64
	Variable bool
}

// UnmarshalJSON accepts a number, a numeric string, "VRB" or null
func (w *WindDirection) UnmarshalJSON(data []byte) error {
	*w = WindDirection{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(s, "VRB") {
			w.Variable = true
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil // unparseable direction reads as calm
		}
		w.Degrees = v
		return nil
	}

	return json.Unmarshal(data, &w.Degrees)
}

// MarshalJSON writes the direction as a number, or "VRB"
func (w WindDirection) MarshalJSON() ([]byte, error) {
	if w.Variable {
		return []byte(`"VRB"`), nil
	}
	return json.Marshal(w.Degrees)
}

// Visibility is reported as a number of statute miles or a string such as "10+"
type Visibility string

// UnmarshalJSON keeps the visibility as text
func (v *Visibility) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Visibility(s)
		return nil
	}
	*v = Visibility(string(data))
	return nil
}

// METARResponse is one observation from the aviationweather.gov metar endpoint
type METARResponse struct {
	IcaoID  string        `json:"icaoId"`
	ObsTime int64         `json:"obsTime"`
	Temp    *float64      `json:"temp"`
	Dewp    *float64      `json:"dewp"`
	Wdir    WindDirection `json:"wdir"`
	Wspd    *float64      `json:"wspd"`
	Visib   Visibility    `json:"visib"`
	Altim   *float64      `json:"altim"`
	FltCat  string        `json:"fltCat"`
	RawOb   string        `json:"rawOb"`
	Elev    *float64      `json:"elev"`
	Lat     float64       `json:"lat"`
	Lon     float64       `json:"lon"`
	Name    string        `json:"name"`
}

// TAFResponse is one forecast from the aviationweather.gov taf endpoint
type TAFResponse struct {
	IcaoID    string        `json:"icaoId"`
	IssueTime string        `json:"issueTime"`
	RawTAF    string        `json:"rawTAF"`
	Fcsts     []TAFForecast `json:"fcsts"`
}

// TAFForecast is a single forecast period. Times are unix seconds.
type TAFForecast struct {
	TimeFrom int64         `json:"timeFrom"`
	TimeTo   int64         `json:"timeTo"`
	Wdir     WindDirection `json:"wdir"`
	Wspd     *float64      `json:"wspd"`
	Visib    Visibility    `json:"visib"`
	Clouds   []Cloud       `json:"clouds"`
}

// Cloud is a forecast cloud layer
type Cloud struct {
	Cover string `json:"cover"`
	Base  *int   `json:"base"`
}

// AirportResponse is one entry from the aviationweather.gov airport endpoint
type AirportResponse struct {
	IcaoID  string           `json:"icaoId"`
	Name    string           `json:"name"`
	Lat     float64          `json:"lat"`
	Lon     float64          `json:"lon"`
	Elev    *float64         `json:"elev"` // meters
	Runways []RunwayResponse `json:"runways"`
}

// RunwayResponse is a runway pair such as "06L/24R" with its "11000x200" dimension
type RunwayResponse struct {
	ID        string `json:"id"`
	Dimension string `json:"dimension"`
}

// Observation is a normalized METAR
type Observation struct {
	Station       string    `json:"station"`
	Raw           string    `json:"raw"`
	ObservedAt    time.Time `json:"observed_at"`
	TempC         *float64  `json:"temp_c"`
	DewpointC     *float64  `json:"dewpoint_c"`
	WindDir       float64   `json:"wind_dir"`
	WindSpeed     float64   `json:"wind_speed"`
	AltimeterInHg *float64  `json:"altimeter_inhg"`
	Visibility    string    `json:"visibility,omitempty"`
	FlightRules   string    `json:"flight_rules"`
}

// Forecast is the TAF period selected for a time
type Forecast struct {
	Raw        string    `json:"raw"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	WindDir    float64   `json:"wind_dir"`
	WindSpeed  float64   `json:"wind_speed"`
	Visibility string    `json:"visibility,omitempty"`
	Clouds     []Cloud   `json:"clouds"`
}

// Runway is a single runway end
type Runway struct {
	ID       string `json:"id"`
	LengthFt int    `json:"length_ft,omitempty"` // 0 when unknown
}

// Station is the static data for an airport
type Station struct {
	Ident       string   `json:"ident"`
	Name        string   `json:"name"`
	ElevationFt float64  `json:"elevation_ft"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Runways     []Runway `json:"runways"`
	Source      string   `json:"source"` // "api" or "fallback"
}

// Briefing is the combined weather and station picture for an airport
type Briefing struct {
	Station     *Station     `json:"station,omitempty"`
	METAR       *Observation `json:"metar,omitempty"`
	Forecast    *Forecast    `json:"forecast,omitempty"`
	BestRunway  *Runway      `json:"best_runway,omitempty"`
	LastUpdated time.Time    `json:"last_updated"`
	FetchErrors []string     `json:"fetch_errors,omitempty"`

	taf *TAFResponse
}

// TAF returns the raw forecast the briefing was built from, if any
func (b *Briefing) TAF() *TAFResponse {
	return b.taf
}
