package autopilot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aeroops/flightcore/pkg/types"
)

func cruiseState() types.FlightState {
	return types.FlightState{
		Position:       types.Position{AltitudeFt: 35000},
		TrueAirspeedKt: 450,
		HeadingDeg:     90,
		Autopilot: types.AutopilotTarget{
			Engaged:    true,
			AltitudeFt: 35000,
			HeadingDeg: 90,
			AirspeedKt: 450,
		},
	}
}

func TestAltitudeHoldDeadband(t *testing.T) {
	st := cruiseState()
	st.Position.AltitudeFt = 35080 // within the 100 ft deadband
	out := Compute(st, types.ControlInputs{Pitch: 0.5})
	assert.Zero(t, out.Pitch)
}

func TestAltitudeHoldProportionalBelowCap(t *testing.T) {
	st := cruiseState()
	st.Position.AltitudeFt = 34000 // 1000 ft low -> 100 fpm commanded
	out := Compute(st, types.ControlInputs{})
	assert.InDelta(t, 100.0/6000.0, out.Pitch, 1e-9)
}

func TestAltitudeHoldClimbRateCapped(t *testing.T) {
	st := cruiseState()
	st.Position.AltitudeFt = 5000 // 30000 ft low -> capped at 2000 fpm
	out := Compute(st, types.ControlInputs{})
	assert.InDelta(t, 2000.0/6000.0, out.Pitch, 1e-9)

	st.Position.AltitudeFt = 44000 // 9000 ft high -> capped descent
	out = Compute(st, types.ControlInputs{})
	assert.InDelta(t, -2000.0/6000.0, out.Pitch, 1e-9)
}

func TestHeadingHoldDeadband(t *testing.T) {
	st := cruiseState()
	st.HeadingDeg = 91.5 // within the 2 degree deadband
	out := Compute(st, types.ControlInputs{Roll: 0.2})
	assert.Zero(t, out.Roll)
}

func TestHeadingHoldProportionalAndCapped(t *testing.T) {
	st := cruiseState()
	st.HeadingDeg = 84 // 6 degrees left of target -> 0.2 roll
	out := Compute(st, types.ControlInputs{})
	assert.InDelta(t, 0.2, out.Roll, 1e-9)

	st.HeadingDeg = 300 // 150 degrees off -> capped at 0.3
	out = Compute(st, types.ControlInputs{})
	assert.InDelta(t, 0.3, out.Roll, 1e-9)
}

func TestHeadingHoldTakesShortestTurn(t *testing.T) {
	st := cruiseState()
	st.Autopilot.HeadingDeg = 10
	st.HeadingDeg = 350 // 20 degrees right through north
	out := Compute(st, types.ControlInputs{})
	assert.Positive(t, out.Roll)

	st.Autopilot.HeadingDeg = 350
	st.HeadingDeg = 10
	out = Compute(st, types.ControlInputs{})
	assert.Negative(t, out.Roll)
}

func TestSpeedHoldDeadbandLeavesThrottle(t *testing.T) {
	st := cruiseState()
	st.TrueAirspeedKt = 447 // within the 5 kt deadband
	out := Compute(st, types.ControlInputs{ThrottlePct: 55})
	assert.Equal(t, 55.0, out.ThrottlePct)
}

func TestSpeedHoldProportionalIncrement(t *testing.T) {
	st := cruiseState()
	st.TrueAirspeedKt = 430 // 20 kt slow -> +0.2 throttle
	out := Compute(st, types.ControlInputs{ThrottlePct: 55})
	assert.InDelta(t, 55.2, out.ThrottlePct, 1e-9)
}

func TestSpeedHoldThrottleClamped(t *testing.T) {
	st := cruiseState()
	st.TrueAirspeedKt = 100
	out := Compute(st, types.ControlInputs{ThrottlePct: 99.9})
	assert.Equal(t, 100.0, out.ThrottlePct)

	st.TrueAirspeedKt = 600
	out = Compute(st, types.ControlInputs{ThrottlePct: 0.1})
	assert.Equal(t, 0.0, out.ThrottlePct)
}

func TestComputeZeroesYaw(t *testing.T) {
	out := Compute(cruiseState(), types.ControlInputs{Yaw: 0.7})
	assert.Zero(t, out.Yaw)
}

func TestClampTargetAltitude(t *testing.T) {
	assert.Equal(t, 45000.0, ClampTargetAltitude(50000))
	assert.Equal(t, 0.0, ClampTargetAltitude(-100))
	assert.Equal(t, 31000.0, ClampTargetAltitude(31000))
}

func TestClampTargetHeading(t *testing.T) {
	assert.InDelta(t, 10, ClampTargetHeading(370), 1e-9)
	assert.InDelta(t, 350, ClampTargetHeading(-10), 1e-9)
	assert.InDelta(t, 0, ClampTargetHeading(360), 1e-9)
}

func TestClampTargetAirspeed(t *testing.T) {
	assert.Equal(t, 100.0, ClampTargetAirspeed(50))
	assert.Equal(t, 600.0, ClampTargetAirspeed(900))
	assert.Equal(t, 450.0, ClampTargetAirspeed(450))
}
