// Package autopilot implements the three-axis hold controller and the
// single clamping entry point for autopilot targets.
package autopilot

import (
	"math"

	"github.com/aeroops/flightcore/pkg/geo"
	"github.com/aeroops/flightcore/pkg/types"
)

// Control-law constants. Each axis is a capped-proportional law around a
// deadband; there is no integral or derivative term, which keeps the
// controller stateless across ticks.
const (
	altDeadbandFt     = 100
	maxClimbRateFpm   = 2000
	pitchAuthorityFpm = 6000 // full pitch command corresponds to this climb rate

	hdgDeadbandDeg = 2
	maxRollCmd     = 0.3

	speedDeadbandKt = 5
)

// Compute runs one controller pass against the current state and its
// autopilot targets, starting from the last applied inputs. It assumes
// targets are already range-clamped by ClampTarget and never mutates the
// state it reads.
func Compute(st types.FlightState, last types.ControlInputs) types.ControlInputs {
	out := last

	altErr := st.Autopilot.AltitudeFt - st.Position.AltitudeFt
	if math.Abs(altErr) > altDeadbandFt {
		climbFpm := math.Copysign(math.Min(maxClimbRateFpm, math.Abs(altErr)/10), altErr)
		out.Pitch = climbFpm / pitchAuthorityFpm
	} else {
		out.Pitch = 0
	}

	hdgErr := geo.HeadingError(st.Autopilot.HeadingDeg, st.HeadingDeg)
	if math.Abs(hdgErr) > hdgDeadbandDeg {
		out.Roll = math.Copysign(math.Min(maxRollCmd, math.Abs(hdgErr)/30), hdgErr)
	} else {
		out.Roll = 0
	}

	spdErr := st.Autopilot.AirspeedKt - st.TrueAirspeedKt
	if math.Abs(spdErr) > speedDeadbandKt {
		out.ThrottlePct = math.Min(100, math.Max(0, out.ThrottlePct+spdErr/100))
	}

	out.Yaw = 0
	return out
}
