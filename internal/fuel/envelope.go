package fuel

import "math"

// StaticEnvelope is a table-driven RateProvider: a base hourly rate per
// regime, scaled by gross weight and altitude. It approximates a mid-size
// twin-jet closely enough for simulation; a real envelope service can
// replace it without touching the engine.
type StaticEnvelope struct {
	baseKgH     map[string]float64
	refWeightKg float64
}

// NewStaticEnvelope builds the default envelope table.
func NewStaticEnvelope() *StaticEnvelope {
	return &StaticEnvelope{
		baseKgH: map[string]float64{
			RegimeClimb:   8200,
			RegimeCruise:  5200,
			RegimeDescent: 2100,
		},
		refWeightKg: 180000,
	}
}

// FuelConsumptionRate returns the hourly burn in kg/h for the given flight
// condition. Unknown regimes fall back to the cruise rate.
func (e *StaticEnvelope) FuelConsumptionRate(altitudeFt, mach, weightKg float64, regime string) float64 {
	base, ok := e.baseKgH[regime]
	if !ok {
		base = e.baseKgH[RegimeCruise]
	}

	// Heavier aircraft burn more; the dependence is roughly linear around
	// the reference weight.
	weightFactor := 0.4 + 0.6*weightKg/e.refWeightKg

	// Thinner air up high reduces burn until the high-Mach drag rise takes
	// over.
	altFactor := 1.15 - 0.25*math.Min(altitudeFt, 43000)/43000
	machFactor := 1.0
	if mach > 0.82 {
		machFactor += (mach - 0.82) * 2.5
	}

	return math.Max(0, base*weightFactor*altFactor*machFactor)
}
