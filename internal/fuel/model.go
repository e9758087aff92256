// Package fuel models fuel burn and the range/endurance metrics derived
// from it.
package fuel

import (
	"math"

	"github.com/aeroops/flightcore/pkg/types"
)

// RateProvider is the performance-envelope collaborator: it converts a
// flight condition into an hourly fuel-consumption rate in kg/h.
// Defined here (consuming side) so external envelope services only need to
// satisfy this one method.
type RateProvider interface {
	FuelConsumptionRate(altitudeFt, mach, weightKg float64, regime string) float64
}

// Flight regimes passed to the rate provider.
const (
	RegimeClimb   = "climb"
	RegimeCruise  = "cruise"
	RegimeDescent = "descent"
)

// saturatedEnduranceHr stands in for "infinite" endurance when the
// consumption rate is zero. A large finite value keeps downstream arithmetic
// out of NaN/Inf territory.
const saturatedEnduranceHr = 1e6

// Burn consumes fuel at rateKgH over elapsedSec and returns the remaining
// quantity, floored at zero.
func Burn(fuelKg, rateKgH, elapsedSec float64) float64 {
	return math.Max(0, fuelKg-rateKgH/3600*elapsedSec)
}

// GrossWeight recomputes aircraft weight from the airframe's empty weight
// and the fuel on board.
func GrossWeight(emptyWeightKg, fuelKg float64) float64 {
	return emptyWeightKg + fuelKg
}

// DerivePerformance computes instantaneous range and endurance from the
// current burn rate and ground speed. A zero (or negative) rate saturates to
// a large finite endurance rather than dividing to Inf.
func DerivePerformance(fuelKg, rateKgH, groundSpeedKt float64) types.Performance {
	enduranceHr := saturatedEnduranceHr
	if rateKgH > 0 {
		enduranceHr = math.Min(fuelKg/rateKgH, saturatedEnduranceHr)
	}
	return types.Performance{
		FuelFlowKgH: math.Max(0, rateKgH),
		RangeNM:     enduranceHr * math.Max(0, groundSpeedKt),
		EnduranceHr: enduranceHr,
	}
}

// RegimeForVerticalSpeed classifies the current flight regime from vertical
// speed, using a +/-500 fpm band around level flight.
func RegimeForVerticalSpeed(vsFpm float64) string {
	switch {
	case vsFpm > 500:
		return RegimeClimb
	case vsFpm < -500:
		return RegimeDescent
	default:
		return RegimeCruise
	}
}
