// Package emergency implements the Normal/Declared emergency state machine
// and its kind-specific side effects.
package emergency

import (
	"time"

	"github.com/aeroops/flightcore/internal/autopilot"
	"github.com/aeroops/flightcore/pkg/types"
)

// engineEmergencyThrottleCap is the throttle ceiling applied when an engine
// emergency is declared.
const engineEmergencyThrottleCap = 80

// pressurizationDescentTargetFt is the emergency-descent altitude forced on
// a pressurization emergency. It is routed through the same clamp as manual
// target changes.
const pressurizationDescentTargetFt = 10000

// Declare transitions the state to Declared(kind), recording the declaration
// time. Declaring over an existing emergency overwrites kind and timestamp
// (last-write-wins). The three recognized kinds carry side effects:
//
//   - medical: autopilot mode tag becomes EMERGENCY
//   - engine: throttle is clamped to at most 80
//   - pressurization: target altitude forced to 10000 ft via the target clamp
//
// Any other kind is recorded with no special handling.
func Declare(st types.FlightState, kind types.EmergencyKind, now time.Time) types.FlightState {
	st.Emergency = types.EmergencyStatus{
		Declared:   true,
		Kind:       kind,
		DeclaredAt: now,
	}

	switch kind {
	case types.EmergencyMedical:
		st.Autopilot.Mode = types.ModeEmergency
	case types.EmergencyEngine:
		if st.ThrottlePct > engineEmergencyThrottleCap {
			st.ThrottlePct = engineEmergencyThrottleCap
		}
	case types.EmergencyPressurization:
		// Declare is a pure state transform with no engine handle, so it
		// cannot call Engine.SetAutopilotTarget. Routing through
		// ClampTargetAltitude keeps the target subject to the same clamp
		// policy the setter applies.
		st.Autopilot.AltitudeFt = autopilot.ClampTargetAltitude(pressurizationDescentTargetFt)
	}
	return st
}

// Clear transitions Declared(*) back to Normal and restores the CRUISE mode
// tag. Clearing while already Normal is a no-op.
func Clear(st types.FlightState) types.FlightState {
	if !st.Emergency.Declared {
		return st
	}
	st.Emergency = types.EmergencyStatus{}
	st.Autopilot.Mode = types.ModeCruise
	return st
}
