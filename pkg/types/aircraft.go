// Package types holds the value types shared between the engine and its
// callers: the flight-state snapshot, control inputs, diversion queries, and
// the aircraft specification constants.
package types

import "time"

// Vec3 is a velocity or displacement vector in meters (per second), earth
// frame: X east, Y north, Z up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Position is a geodetic position.
type Position struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AltitudeFt float64 `json:"altitude_ft"`
}

// Attitude holds aircraft orientation in degrees. Yaw doubles as heading
// before normalization.
type Attitude struct {
	PitchDeg float64 `json:"pitch_deg"`
	RollDeg  float64 `json:"roll_deg"`
	YawDeg   float64 `json:"yaw_deg"`
}

// EngineStatus is one engine's instantaneous readings.
type EngineStatus struct {
	ThrustPct   float64 `json:"thrust_pct"`
	TempC       float64 `json:"temp_c"`
	FuelFlowKgH float64 `json:"fuel_flow_kg_h"`
}

// Autopilot mode tags. A mode tag describes current behavior; it is not a
// control parameter.
const (
	ModeCruise    = "CRUISE"
	ModeEmergency = "EMERGENCY"
)

// AutopilotTarget holds the engaged flag, mode tag, and hold targets.
type AutopilotTarget struct {
	Engaged    bool    `json:"engaged"`
	Mode       string  `json:"mode"`
	AltitudeFt float64 `json:"altitude_ft"`
	HeadingDeg float64 `json:"heading_deg"`
	AirspeedKt float64 `json:"airspeed_kt"`
}

// EmergencyStatus records a declared emergency. DeclaredAt is zero unless
// Declared is true.
type EmergencyStatus struct {
	Declared   bool          `json:"declared"`
	Kind       EmergencyKind `json:"kind,omitzero"`
	DeclaredAt time.Time     `json:"declared_at,omitzero"`
}

// Turbulence categories for the weather snapshot.
type Turbulence string

const (
	TurbulenceNone     Turbulence = "none"
	TurbulenceLight    Turbulence = "light"
	TurbulenceModerate Turbulence = "moderate"
	TurbulenceSevere   Turbulence = "severe"
)

// Weather is the ambient conditions applied each tick.
type Weather struct {
	WindSpeedKt  float64    `json:"wind_speed_kt"`
	WindDirDeg   float64    `json:"wind_dir_deg"`
	Turbulence   Turbulence `json:"turbulence"`
	VisibilityNM float64    `json:"visibility_nm"`
}

// Performance holds the derived metrics recomputed every tick. They are
// never persisted independently of the state that produced them.
type Performance struct {
	FuelFlowKgH float64 `json:"fuel_flow_kg_h"`
	RangeNM     float64 `json:"range_nm"`
	EnduranceHr float64 `json:"endurance_hr"`
}

// Warning codes surfaced by the tick orchestrator.
const (
	WarnLowFuel        = "LOW_FUEL"
	WarnEngineOverheat = "ENGINE_OVERHEAT"
	WarnOverAltitude   = "ALTITUDE_EXCEEDANCE"
	WarnOverspeed      = "OVERSPEED"
)

// Warning is one threshold exceedance observed on the current snapshot.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FlightState is the authoritative aircraft snapshot. It is mutated only by
// the tick orchestrator; external readers receive copies via Clone.
type FlightState struct {
	Position Position `json:"position"`

	Velocity         Vec3    `json:"velocity"` // m/s, earth frame
	TrueAirspeedKt   float64 `json:"true_airspeed_kt"`
	GroundSpeedKt    float64 `json:"ground_speed_kt"`
	HeadingDeg       float64 `json:"heading_deg"` // [0,360)
	VerticalSpeedFpm float64 `json:"vertical_speed_fpm"`

	Attitude Attitude `json:"attitude"`

	ThrottlePct   float64        `json:"throttle_pct"` // [0,100]
	FuelKg        float64        `json:"fuel_kg"`
	GrossWeightKg float64        `json:"gross_weight_kg"`
	Engines       []EngineStatus `json:"engines"`

	Autopilot   AutopilotTarget `json:"autopilot"`
	Emergency   EmergencyStatus `json:"emergency"`
	Weather     Weather         `json:"weather"`
	Performance Performance     `json:"performance"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// Clone returns a deep copy. The Engines and Warnings slices are copied so a
// snapshot never aliases the live state.
func (s FlightState) Clone() FlightState {
	out := s
	if s.Engines != nil {
		out.Engines = make([]EngineStatus, len(s.Engines))
		copy(out.Engines, s.Engines)
	}
	if s.Warnings != nil {
		out.Warnings = make([]Warning, len(s.Warnings))
		copy(out.Warnings, s.Warnings)
	}
	return out
}

// ControlInputs is the command set handed to the dynamics provider: throttle
// percentage and normalized attitude commands.
type ControlInputs struct {
	ThrottlePct float64 `json:"throttle_pct"` // [0,100]
	Pitch       float64 `json:"pitch"`        // [-1,1]
	Roll        float64 `json:"roll"`         // [-1,1]
	Yaw         float64 `json:"yaw"`          // [-1,1]
}

// Clamped returns a copy with throttle in [0,100] and attitude commands in
// [-1,1].
func (c ControlInputs) Clamped() ControlInputs {
	c.ThrottlePct = clamp(c.ThrottlePct, 0, 100)
	c.Pitch = clamp(c.Pitch, -1, 1)
	c.Roll = clamp(c.Roll, -1, 1)
	c.Yaw = clamp(c.Yaw, -1, 1)
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DiversionQuery is a target alternate point.
type DiversionQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DiversionResult is the feasibility analysis for one query.
type DiversionResult struct {
	DistanceNM     float64 `json:"distance_nm"`
	BearingDeg     float64 `json:"bearing_deg"`
	FlightTimeMin  float64 `json:"flight_time_min"`
	FuelRequiredKg float64 `json:"fuel_required_kg"`
	Feasible       bool    `json:"feasible"`
}

// AircraftSpec holds the fixed airframe constants consumed by the engine.
type AircraftSpec struct {
	EmptyWeightKg float64
	MaxAltitudeFt float64
	MaxMach       float64
	EngineCount   int
}

// DefaultAircraftSpec is a generic twin-engine widebody.
func DefaultAircraftSpec() AircraftSpec {
	return AircraftSpec{
		EmptyWeightKg: 120000,
		MaxAltitudeFt: 43000,
		MaxMach:       0.86,
		EngineCount:   2,
	}
}
