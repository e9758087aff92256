// Package diversion evaluates geodesic diversion feasibility to an
// arbitrary alternate point.
package diversion

import (
	"math"

	"github.com/aeroops/flightcore/pkg/geo"
	"github.com/aeroops/flightcore/pkg/types"
)

// reserveFactor is the fixed 10% fuel-reserve policy: a diversion is
// feasible only when the fuel required stays below 90% of the fuel on
// board. Not configurable in this version.
const reserveFactor = 0.9

// Evaluate computes distance, bearing, flight time, and fuel required from
// the snapshot to the target point. It never mutates the snapshot and is
// safe to call at any time, including mid-emergency.
//
// It is the one hard-fault path in the core: a snapshot without a usable
// position, ground speed, or consumption rate yields a precondition error
// instead of a nonsensical result.
func Evaluate(st types.FlightState, q types.DiversionQuery) (types.DiversionResult, error) {
	if math.IsNaN(st.Position.Latitude) || math.IsNaN(st.Position.Longitude) {
		return types.DiversionResult{}, &types.PreconditionError{Op: "diversion", Reason: "no current position"}
	}
	if st.GroundSpeedKt <= 0 {
		return types.DiversionResult{}, &types.PreconditionError{Op: "diversion", Reason: "ground speed unavailable"}
	}
	if st.Performance.FuelFlowKgH <= 0 {
		return types.DiversionResult{}, &types.PreconditionError{Op: "diversion", Reason: "fuel consumption rate unavailable"}
	}

	nm, brg := geo.DistanceAndBearing(st.Position.Latitude, st.Position.Longitude, q.Latitude, q.Longitude)
	hours := nm / st.GroundSpeedKt
	fuelRequired := st.Performance.FuelFlowKgH * hours

	return types.DiversionResult{
		DistanceNM:     nm,
		BearingDeg:     brg,
		FlightTimeMin:  hours * 60,
		FuelRequiredKg: fuelRequired,
		Feasible:       fuelRequired < reserveFactor*st.FuelKg,
	}, nil
}
