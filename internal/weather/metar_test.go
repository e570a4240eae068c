package weather

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestWindDirection_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in       string
		degrees  float64
		variable bool
	}{
		{`250`, 250, false},
		{`"250"`, 250, false},
		{`"VRB"`, 0, true},
		{`null`, 0, false},
		{`"garbage"`, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var w WindDirection
			require.NoError(t, json.Unmarshal([]byte(tc.in), &w))
			assert.Equal(t, tc.degrees, w.Degrees)
			assert.Equal(t, tc.variable, w.Variable)
		})
	}
}

func TestVisibility_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Visibility `json:"a"`
		B Visibility `json:"b"`
		C Visibility `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "10+", "b": 6, "c": null}`), &v))
	assert.Equal(t, Visibility("10+"), v.A)
	assert.Equal(t, Visibility("6"), v.B)
	assert.Equal(t, Visibility(""), v.C)
}

func TestNormalizeMETAR(t *testing.T) {
	raw := `{"icaoId":"CYUL","obsTime":1718200800,"temp":21,"dewp":12,"wdir":240,"wspd":12,
		"visib":"6+","altim":1013.2,"fltCat":"VFR","rawOb":"METAR CYUL 121400Z 24012KT 15SM FEW040 21/12 A2992"}`
	var m METARResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	obs := NormalizeMETAR(&m)
	require.NotNil(t, obs)
	assert.Equal(t, "CYUL", obs.Station)
	assert.Equal(t, time.Unix(1718200800, 0).UTC(), obs.ObservedAt)
	assert.Equal(t, 240.0, obs.WindDir)
	assert.Equal(t, 12.0, obs.WindSpeed)
	require.NotNil(t, obs.AltimeterInHg)
	assert.InDelta(t, 1013.2*HPaToInHg, *obs.AltimeterInHg, 1e-9)
	require.NotNil(t, obs.TempC)
	assert.Equal(t, 21.0, *obs.TempC)
	assert.Equal(t, "VFR", obs.FlightRules)
	assert.Equal(t, "6+", obs.Visibility)
}

func TestNormalizeMETAR_Defaults(t *testing.T) {
	m := &METARResponse{
		IcaoID: "CYHU",
		Wdir:   WindDirection{Variable: true},
		Altim:  f64(29.85),
		RawOb:  "METAR CYHU 121400Z VRB03KT 15SM SKC M02/M10 A2985 RMK T10231100",
	}

	obs := NormalizeMETAR(m)
	assert.Equal(t, 0.0, obs.WindDir)
	assert.Equal(t, 0.0, obs.WindSpeed)
	assert.Equal(t, "UNK", obs.FlightRules)
	assert.InDelta(t, 29.85, *obs.AltimeterInHg, 1e-9)
	// Temperature falls back to the remarks T-group
	require.NotNil(t, obs.TempC)
	assert.InDelta(t, -2.3, *obs.TempC, 1e-9)
	assert.True(t, obs.ObservedAt.IsZero())

	assert.Nil(t, NormalizeMETAR(nil))
	assert.Nil(t, NormalizeMETAR(&METARResponse{}).AltimeterInHg)
}

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"CYUL 121400Z 24012KT 15SM 22/10 A2992", 22, true},
		{"CYUL 121400Z 24012KT 15SM M03/M05 A2992", -3, true},
		{"CYUL 121400Z 24012KT 15SM 00/M01 A2992", 0, true},
		{"KJFK 121451Z 22010KT 10SM 22/14 A3001 RMK AO2 T02220139", 22.2, true},
		{"CYUL 121400Z 24012KT 15SM A2992", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseTemperature(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestSelectForecast(t *testing.T) {
	base := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	taf := &TAFResponse{
		RawTAF: "TAF CYUL ...",
		Fcsts: []TAFForecast{
			{TimeFrom: base.Unix(), TimeTo: base.Add(6 * time.Hour).Unix(), Wdir: WindDirection{Degrees: 240}, Wspd: f64(10)},
			{TimeFrom: base.Add(6 * time.Hour).Unix(), TimeTo: base.Add(12 * time.Hour).Unix(), Wdir: WindDirection{Degrees: 300}, Wspd: f64(15),
				Clouds: []Cloud{{Cover: "BKN"}}},
		},
	}

	fc := SelectForecast(taf, base.Add(7*time.Hour))
	require.NotNil(t, fc)
	assert.Equal(t, 300.0, fc.WindDir)
	assert.Equal(t, 15.0, fc.WindSpeed)
	assert.Equal(t, "BKN", fc.Clouds[0].Cover)

	// The period end is exclusive
	fc = SelectForecast(taf, base.Add(6*time.Hour))
	assert.Equal(t, 300.0, fc.WindDir)

	// Outside every period: first period
	fc = SelectForecast(taf, base.Add(-time.Hour))
	assert.Equal(t, 240.0, fc.WindDir)
	assert.NotNil(t, fc.Clouds)

	assert.Nil(t, SelectForecast(nil, base))
	assert.Nil(t, SelectForecast(&TAFResponse{}, base))
}
