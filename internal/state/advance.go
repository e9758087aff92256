package state

import (
	"math"

	"github.com/aeroops/flightcore/internal/dynamics"
	"github.com/aeroops/flightcore/pkg/geo"
	"github.com/aeroops/flightcore/pkg/types"
)

// Advance absorbs one dynamics delta into the state and re-derives every
// dependent scalar. It is a pure transformation: no branching on autopilot
// or emergency state, no side effects.
//
// Invariants restored on every call: altitude, airspeed, ground speed, fuel,
// and weight are non-negative; heading is in [0,360).
func Advance(st types.FlightState, d dynamics.Delta) types.FlightState {
	lat0 := st.Position.Latitude
	st.Position.Latitude += geo.MetersToDegLat(d.Position.Y)
	st.Position.Longitude += geo.MetersToDegLon(d.Position.X, lat0)
	st.Position.AltitudeFt = math.Max(0, st.Position.AltitudeFt+geo.MToFt(d.Position.Z))

	st.Velocity = d.Velocity
	st.Attitude.PitchDeg += d.Rotation.X
	st.Attitude.RollDeg += d.Rotation.Y
	st.Attitude.YawDeg = geo.NormalizeHeading(st.Attitude.YawDeg + d.Rotation.Z)

	v := st.Velocity
	st.TrueAirspeedKt = geo.MpsToKt(math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
	st.GroundSpeedKt = geo.MpsToKt(math.Sqrt(v.X*v.X + v.Y*v.Y))
	st.HeadingDeg = st.Attitude.YawDeg
	st.VerticalSpeedFpm = geo.MpsToFtMin(v.Z)

	st.FuelKg = math.Max(0, st.FuelKg)
	st.GrossWeightKg = math.Max(0, st.GrossWeightKg)
	return st
}

// InitialConditions are the fixed starting values applied at simulation
// start and on every reset.
type InitialConditions struct {
	Latitude    float64
	Longitude   float64
	AltitudeFt  float64
	HeadingDeg  float64
	SpeedMps    float64
	ThrottlePct float64
	FuelKg      float64
}

// DefaultInitialConditions starts in cruise over the Pacific Northwest.
func DefaultInitialConditions() InitialConditions {
	return InitialConditions{
		Latitude:    47.4502,
		Longitude:   -122.3088,
		AltitudeFt:  35000,
		HeadingDeg:  0,
		SpeedMps:    165,
		ThrottlePct: 50,
		FuelKg:      60000,
	}
}

// Initial builds the documented initial FlightState for the given airframe.
// Calling it twice with the same inputs yields identical states.
func Initial(spec types.AircraftSpec, ic InitialConditions) types.FlightState {
	hdg := geo.NormalizeHeading(ic.HeadingDeg)
	hdgRad := hdg * math.Pi / 180

	engines := make([]types.EngineStatus, spec.EngineCount)
	for i := range engines {
		engines[i] = types.EngineStatus{ThrustPct: ic.ThrottlePct, TempC: 350}
	}

	return types.FlightState{
		Position: types.Position{
			Latitude:   ic.Latitude,
			Longitude:  ic.Longitude,
			AltitudeFt: ic.AltitudeFt,
		},
		Velocity: types.Vec3{
			X: ic.SpeedMps * math.Sin(hdgRad),
			Y: ic.SpeedMps * math.Cos(hdgRad),
		},
		TrueAirspeedKt: geo.MpsToKt(ic.SpeedMps),
		GroundSpeedKt:  geo.MpsToKt(ic.SpeedMps),
		HeadingDeg:     hdg,
		Attitude:       types.Attitude{YawDeg: hdg},
		ThrottlePct:    ic.ThrottlePct,
		FuelKg:         ic.FuelKg,
		GrossWeightKg:  spec.EmptyWeightKg + ic.FuelKg,
		Engines:        engines,
		Autopilot: types.AutopilotTarget{
			Mode:       types.ModeCruise,
			AltitudeFt: ic.AltitudeFt,
			HeadingDeg: hdg,
			AirspeedKt: geo.MpsToKt(ic.SpeedMps),
		},
		Weather: types.Weather{Turbulence: types.TurbulenceNone, VisibilityNM: 10},
	}
}
