package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/performance"
	"github.com/yegors/preflight/internal/physics"
	"github.com/yegors/preflight/pkg/logger"
)

// Input defaults used when a field is left blank
const (
	DefaultAltimeterInHg = physics.StdAltimeterInHg
	DefaultOATCelsius    = physics.StdSeaLevelTempC
)

var (
	// ErrInvalidPlan is returned for plans with non-finite or negative inputs
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrUnknownProfile is returned by Profiles implementations for an ID that does not exist
	ErrUnknownProfile = errors.New("unknown aircraft profile")
)

// Catalog is the subset of the aircraft catalog the planner reads
type Catalog interface {
	Performance(code string) (aircraft.Performance, bool)
	FuelConstants(code string) (aircraft.FuelConstants, bool)
	WeightBalance(code string) (aircraft.WeightBalance, bool)
}

// AircraftProfile is a specific airframe's weighed empty weight and arm
type AircraftProfile struct {
	Registration string
	EmptyWeight  float64
	EmptyArm     float64
}

// Profiles resolves a saved airframe profile
type Profiles interface {
	Profile(ctx context.Context, id int64) (AircraftProfile, error)
}

// ProfilesFunc adapts a function to Profiles
type ProfilesFunc func(ctx context.Context, id int64) (AircraftProfile, error)

// Profile calls f
func (f ProfilesFunc) Profile(ctx context.Context, id int64) (AircraftProfile, error) {
	return f(ctx, id)
}

// StationLocator resolves an airport identifier to a position
type StationLocator interface {
	Locate(ctx context.Context, ident string) (lat, lon float64, ok bool)
}

// Conditions are the observed conditions at the departure or arrival field
type Conditions struct {
	Ident         string   `json:"ident"`
	ElevationFt   float64  `json:"elevation_ft"`
	AltimeterInHg *float64 `json:"altimeter_inhg,omitempty"`
	OATC          *float64 `json:"oat_c,omitempty"`
	WindDir       float64  `json:"wind_dir"`
	WindSpeed     float64  `json:"wind_speed"`
	Runway        string   `json:"runway,omitempty"`
}

// Cruise describes the cruise altitude, its conditions and the true airspeed
type Cruise struct {
	AltitudeFt    float64  `json:"altitude_ft"`
	AltimeterInHg *float64 `json:"altimeter_inhg,omitempty"`
	OATC          *float64 `json:"oat_c,omitempty"`
	TASKt         float64  `json:"tas_kt"`
	WindDir       float64  `json:"wind_dir"`
	WindSpeed     float64  `json:"wind_speed"`
}

// Route is a direct route between two waypoints
type Route struct {
	From Waypoint `json:"from"`
	To   Waypoint `json:"to"`
}

// Plan is a complete planning request
type Plan struct {
	AircraftCode   string     `json:"aircraft"`
	ProfileID      *int64     `json:"profile_id,omitempty"`
	DepartureTime  time.Time  `json:"departure_time"`
	UTCOffsetHours float64    `json:"utc_offset_hours"`
	Departure      Conditions `json:"departure"`
	Arrival        Conditions `json:"arrival"`
	Cruise         *Cruise    `json:"cruise,omitempty"`
	Route          *Route     `json:"route,omitempty"`
	CruiseHours    float64    `json:"cruise_hours"`
	FuelOnBoardGal float64    `json:"fuel_on_board_gal"`
	Loading        *Loading   `json:"loading,omitempty"`
}

// RunwayWind is the wind split along a runway
type RunwayWind struct {
	Runway    string  `json:"runway"`
	Heading   float64 `json:"heading"`
	Headwind  float64 `json:"headwind"`
	Crosswind float64 `json:"crosswind"`
}

// FieldResult is the derived atmosphere, wind and distance at a field
type FieldResult struct {
	Ident         string                  `json:"ident"`
	AltimeterInHg float64                 `json:"altimeter_inhg"`
	OATC          float64                 `json:"oat_c"`
	Atmosphere    physics.AtmosphereState `json:"atmosphere"`
	Wind          *RunwayWind             `json:"wind,omitempty"`
	Distance      performance.Result      `json:"distance"`
}

// Result is the computed plan
type Result struct {
	Aircraft      string                   `json:"aircraft"`
	Departure     FieldResult              `json:"departure"`
	Arrival       FieldResult              `json:"arrival"`
	Cruise        *physics.AtmosphereState `json:"cruise,omitempty"`
	Leg           *LegResult               `json:"leg,omitempty"`
	Fuel          *FuelResult              `json:"fuel,omitempty"`
	WeightBalance *WeightBalanceResult     `json:"weight_balance,omitempty"`
	Warnings      []string                 `json:"warnings"`
}

// Service computes plans against the aircraft catalog
type Service struct {
	catalog  Catalog
	profiles Profiles
	stations StationLocator
	policy   FuelPolicy
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a planner. profiles and stations may be nil.
func NewService(catalog Catalog, profiles Profiles, stations StationLocator, policy FuelPolicy, log *logger.Logger) *Service {
	return &Service{
		catalog:  catalog,
		profiles: profiles,
		stations: stations,
		policy:   policy,
		logger:   log.Named("planner"),
		now:      time.Now,
	}
}

// Compute derives every output of a plan. A model missing from the catalog leaves
// the dependent sections unavailable rather than failing the plan.
func (s *Service) Compute(ctx context.Context, plan Plan) (Result, error) {
	if err := validatePlan(plan); err != nil {
		return Result{}, err
	}

	res := Result{Aircraft: plan.AircraftCode, Warnings: []string{}}

	perf, hasPerf := s.catalog.Performance(plan.AircraftCode)
	if !hasPerf {
		res.warn("no performance data for aircraft %q", plan.AircraftCode)
	}

	var err error
	res.Departure, err = s.field(plan.Departure, "takeoff", plan.AircraftCode, perf.Takeoff, &res)
	if err != nil {
		return Result{}, fmt.Errorf("departure: %w", err)
	}
	res.Arrival, err = s.field(plan.Arrival, "landing", plan.AircraftCode, perf.Landing, &res)
	if err != nil {
		return Result{}, fmt.Errorf("arrival: %w", err)
	}

	if hasPerf && !res.Departure.Distance.Available {
		res.warn("takeoff distance unavailable at %s", fieldName(plan.Departure))
	}
	if hasPerf && !res.Arrival.Distance.Available {
		res.warn("landing distance unavailable at %s", fieldName(plan.Arrival))
	}

	if plan.Cruise != nil {
		altimeter := valueOr(plan.Cruise.AltimeterInHg, DefaultAltimeterInHg)
		oat := valueOr(plan.Cruise.OATC, physics.StandardTemperature(plan.Cruise.AltitudeFt))
		atm := physics.Atmosphere(plan.Cruise.AltitudeFt, altimeter, oat)
		res.Cruise = &atm
	}

	if plan.Route != nil {
		leg, ok := s.leg(ctx, plan, &res)
		if ok {
			res.Leg = &leg
		}
	}

	if fc, ok := s.catalog.FuelConstants(plan.AircraftCode); ok {
		cruiseHours := plan.CruiseHours
		if cruiseHours == 0 && res.Leg != nil && res.Leg.Solvable {
			cruiseHours = res.Leg.ETE.Hours()
		}
		fuel := FuelPlan(fc, cruiseHours, s.departureTime(plan), plan.UTCOffsetHours, plan.FuelOnBoardGal, s.policy)
		res.Fuel = &fuel
		if !fuel.Sufficient {
			res.warn("fuel on board %.1f gal is below the %.1f gal required", fuel.OnBoardGal, fuel.RequiredGal)
		}
	}

	if plan.Loading != nil {
		if wb, ok := s.catalog.WeightBalance(plan.AircraftCode); ok {
			load := *plan.Loading
			if err := s.applyProfile(ctx, plan.ProfileID, &load); err != nil {
				return Result{}, err
			}
			if load.FuelGal == 0 {
				load.FuelGal = plan.FuelOnBoardGal
			}
			wbRes := ComputeWeightBalance(wb, load)
			res.WeightBalance = &wbRes
			if !wbRes.WithinWeight {
				res.warn("total weight %.1f lb is outside limits", wbRes.TotalWeight)
			}
			if !wbRes.WithinCGRange {
				res.warn("CG %.2f in is outside the envelope", wbRes.CG)
			}
		}
	}

	s.logger.Debug("Plan computed",
		logger.String("aircraft", plan.AircraftCode),
		logger.Bool("takeoff_available", res.Departure.Distance.Available),
		logger.Bool("landing_available", res.Arrival.Distance.Available),
		logger.Int("warnings", len(res.Warnings)))

	return res, nil
}

// field solves one airfield. A malformed chart degrades the distance to
// unavailable; a non-finite query is an error.
func (s *Service) field(c Conditions, chart, code string, table *performance.Table, res *Result) (FieldResult, error) {
	altimeter := valueOr(c.AltimeterInHg, DefaultAltimeterInHg)
	oat := valueOr(c.OATC, DefaultOATCelsius)

	out := FieldResult{
		Ident:         c.Ident,
		AltimeterInHg: altimeter,
		OATC:          oat,
		Atmosphere:    physics.Atmosphere(c.ElevationFt, altimeter, oat),
	}

	if c.Runway != "" {
		hdg, err := physics.RunwayHeading(c.Runway)
		if err != nil {
			res.warn("ignoring runway %q at %s", c.Runway, fieldName(c))
		} else {
			hw, xw := physics.WindComponents(c.WindDir, c.WindSpeed, hdg)
			out.Wind = &RunwayWind{Runway: c.Runway, Heading: hdg, Headwind: hw, Crosswind: xw}
			if hw < 0 {
				res.warn("tailwind of %.1f kt on runway %s at %s", -hw, c.Runway, fieldName(c))
			}
		}
	}

	dist, err := performance.Interpolate(table, out.Atmosphere.PressureAltitudeFt, oat)
	if errors.Is(err, performance.ErrDegenerateTable) {
		s.logger.Warn("Malformed performance chart",
			logger.String("aircraft", code),
			logger.String("chart", chart),
			logger.Error(err))
		res.warn("%s chart for %q is malformed", chart, code)
		dist, err = performance.Unavailable, nil
	}
	if err != nil {
		return FieldResult{}, err
	}
	out.Distance = dist

	return out, nil
}

// departureTime is the plan's departure, or now when none was given
func (s *Service) departureTime(plan Plan) time.Time {
	if plan.DepartureTime.IsZero() {
		return s.now().UTC()
	}
	return plan.DepartureTime
}

func (s *Service) leg(ctx context.Context, plan Plan, res *Result) (LegResult, bool) {
	if plan.Cruise == nil || plan.Cruise.TASKt <= 0 {
		res.warn("route given without a cruise true airspeed")
		return LegResult{}, false
	}

	from, ok := s.resolve(ctx, plan.Route.From)
	if !ok {
		res.warn("cannot locate %q", plan.Route.From.Ident)
		return LegResult{}, false
	}
	to, ok := s.resolve(ctx, plan.Route.To)
	if !ok {
		res.warn("cannot locate %q", plan.Route.To.Ident)
		return LegResult{}, false
	}

	leg := ComputeLeg(LegInput{
		From:        from,
		To:          to,
		TASKt:       plan.Cruise.TASKt,
		WindDir:     plan.Cruise.WindDir,
		WindSpeed:   plan.Cruise.WindSpeed,
		CruiseAltFt: plan.Cruise.AltitudeFt,
		Departure:   plan.DepartureTime,
	})
	if !leg.Solvable {
		res.warn("no wind correction solution for %.0f kt TAS", plan.Cruise.TASKt)
	}
	return leg, true
}

func (s *Service) resolve(ctx context.Context, w Waypoint) (Waypoint, bool) {
	if w.HasPosition() {
		return w, true
	}
	if s.stations == nil || w.Ident == "" {
		return w, false
	}
	lat, lon, ok := s.stations.Locate(ctx, w.Ident)
	if !ok {
		return w, false
	}
	w.Lat, w.Lon = lat, lon
	return w, true
}

func (s *Service) applyProfile(ctx context.Context, id *int64, load *Loading) error {
	if id == nil {
		return nil
	}
	if s.profiles == nil {
		return fmt.Errorf("%w: profiles are not available", ErrInvalidPlan)
	}

	p, err := s.profiles.Profile(ctx, *id)
	if errors.Is(err, ErrUnknownProfile) {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if err != nil {
		return fmt.Errorf("failed to load profile %d: %w", *id, err)
	}

	if load.EmptyWeight == 0 {
		load.EmptyWeight = p.EmptyWeight
	}
	if load.EmptyArm == nil {
		arm := p.EmptyArm
		load.EmptyArm = &arm
	}
	return nil
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func validatePlan(p Plan) error {
	values := []float64{
		p.UTCOffsetHours, p.CruiseHours, p.FuelOnBoardGal,
		p.Departure.ElevationFt, p.Departure.WindDir, p.Departure.WindSpeed,
		p.Arrival.ElevationFt, p.Arrival.WindDir, p.Arrival.WindSpeed,
	}
	for _, opt := range []*float64{p.Departure.AltimeterInHg, p.Departure.OATC, p.Arrival.AltimeterInHg, p.Arrival.OATC} {
		if opt != nil {
			values = append(values, *opt)
		}
	}
	if p.Cruise != nil {
		values = append(values, p.Cruise.AltitudeFt, p.Cruise.TASKt, p.Cruise.WindDir, p.Cruise.WindSpeed)
	}
	if p.Loading != nil {
		l := p.Loading
		values = append(values, l.EmptyWeight, l.FrontSeats, l.RearSeats, l.Baggage, l.FuelGal)
	}

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidPlan)
		}
	}

	if p.CruiseHours < 0 || p.FuelOnBoardGal < 0 {
		return fmt.Errorf("%w: negative cruise time or fuel", ErrInvalidPlan)
	}
	if math.Abs(p.UTCOffsetHours) > 14 {
		return fmt.Errorf("%w: UTC offset %.1f out of range", ErrInvalidPlan, p.UTCOffsetHours)
	}
	return nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func fieldName(c Conditions) string {
	if c.Ident != "" {
		return c.Ident
	}
	return "field"
}
