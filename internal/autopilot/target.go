package autopilot

import "github.com/aeroops/flightcore/pkg/geo"

// Target range limits. ClampTarget is the sole author of this policy; every
// component that changes a target, the emergency machine included, must go
// through it.
const (
	MinTargetAltFt   = 0
	MaxTargetAltFt   = 45000
	MinTargetSpeedKt = 100
	MaxTargetSpeedKt = 600
)

// ClampTargetAltitude clamps a target altitude into [0,45000] ft.
func ClampTargetAltitude(ft float64) float64 {
	if ft < MinTargetAltFt {
		return MinTargetAltFt
	}
	if ft > MaxTargetAltFt {
		return MaxTargetAltFt
	}
	return ft
}

// ClampTargetHeading wraps a target heading into [0,360).
func ClampTargetHeading(deg float64) float64 {
	return geo.NormalizeHeading(deg)
}

// ClampTargetAirspeed clamps a target airspeed into [100,600] kt.
func ClampTargetAirspeed(kt float64) float64 {
	if kt < MinTargetSpeedKt {
		return MinTargetSpeedKt
	}
	if kt > MaxTargetSpeedKt {
		return MaxTargetSpeedKt
	}
	return kt
}
