package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/aeroops/flightcore/internal/autopilot"
	"github.com/aeroops/flightcore/internal/fuel"
	"github.com/aeroops/flightcore/internal/state"
	"github.com/aeroops/flightcore/pkg/geo"
	"github.com/aeroops/flightcore/pkg/types"
)

// Warning thresholds.
const (
	lowFuelThresholdKg = 10000
	engineOverTempC    = 900
)

// Update advances the simulation by the wall time elapsed since the last
// tick. While Paused it is a no-op. The first tick after construction,
// Reset, or Resume only establishes the time baseline.
func (e *Engine) Update() error {
	return e.updateAt(time.Now())
}

func (e *Engine) updateAt(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.runState != Active {
		return nil
	}
	if e.lastTick.IsZero() {
		e.lastTick = now
		return nil
	}
	dt := now.Sub(e.lastTick).Seconds()
	if dt <= 0 {
		return nil
	}
	if err := e.stepLocked(dt); err != nil {
		return err
	}
	e.lastTick = now
	return nil
}

// Step advances the simulation by an explicit interval, bypassing the wall
// clock. Paused engines ignore it.
func (e *Engine) Step(elapsedSec float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runState != Active || elapsedSec <= 0 {
		return nil
	}
	return e.stepLocked(elapsedSec)
}

// stepLocked runs one tick in the mandated order, staging the whole new
// state and committing it with a single swap. A failed invariant check
// aborts before the commit, so readers never see a partial tick.
func (e *Engine) stepLocked(dt float64) error {
	started := time.Now()

	// 1. Dynamics delta from the last applied controls.
	delta := e.dyn.Advance(e.controls, dt)

	// 2. Absorb the delta and re-derive kinematics.
	st := state.Advance(e.mgr.Snapshot(), delta)

	// 3. Next controls: autopilot when engaged, raw pilot inputs otherwise.
	if st.Autopilot.Engaged {
		e.controls = autopilot.Compute(st, e.controls)
	} else {
		e.controls = e.manual
	}
	st.ThrottlePct = e.controls.ThrottlePct

	// 4. Fuel burn and weight.
	mach := geo.MachFromTAS(st.TrueAirspeedKt, st.Position.AltitudeFt)
	regime := fuel.RegimeForVerticalSpeed(st.VerticalSpeedFpm)
	rate := e.rates.FuelConsumptionRate(st.Position.AltitudeFt, mach, st.GrossWeightKg, regime)
	st.FuelKg = fuel.Burn(st.FuelKg, rate, dt)
	st.GrossWeightKg = fuel.GrossWeight(e.cfg.Spec.EmptyWeightKg, st.FuelKg)

	// 5. Engine parameters: thrust mirrors throttle; temperature and fuel
	// flow are noisy functions of throttle and altitude.
	e.updateEngines(&st, rate)

	// 6. Derived performance metrics.
	st.Performance = fuel.DerivePerformance(st.FuelKg, rate, st.GroundSpeedKt)

	// 7. Weather effects.
	e.applyWeather(&st)

	// 8. Warnings.
	st.Warnings = e.evaluateWarnings(st, mach)

	if err := validate(st); err != nil {
		return fmt.Errorf("tick aborted: %w", err)
	}

	e.mgr.Replace(st)
	e.metrics.ObserveTick(time.Since(started), st)
	e.publish(st)
	return nil
}

func (e *Engine) updateEngines(st *types.FlightState, rateKgH float64) {
	n := len(st.Engines)
	if n == 0 {
		return
	}
	perEngineFlow := rateKgH / float64(n)
	for i := range st.Engines {
		st.Engines[i].ThrustPct = st.ThrottlePct
		st.Engines[i].TempC = 300 + 5.5*st.ThrottlePct + st.Position.AltitudeFt/1000*1.5 + (e.rng.Float64()*2-1)*8
		st.Engines[i].FuelFlowKgH = perEngineFlow * (1 + (e.rng.Float64()*2-1)*0.02)
	}
}

// applyWeather adjusts ground speed for the wind component along track and
// lets turbulence perturb manual controls. Autopilot-computed controls are
// never perturbed.
func (e *Engine) applyWeather(st *types.FlightState) {
	w := st.Weather
	if w.WindSpeedKt > 0 {
		head := headwindComponent(st.HeadingDeg, w.WindDirDeg, w.WindSpeedKt)
		st.GroundSpeedKt = math.Max(0, st.TrueAirspeedKt-head)
	}

	if !st.Autopilot.Engaged {
		if amp := turbulenceAmplitude(w.Turbulence); amp > 0 {
			e.controls.Pitch += (e.rng.Float64()*2 - 1) * amp
			e.controls.Roll += (e.rng.Float64()*2 - 1) * amp
			e.controls.Yaw += (e.rng.Float64()*2 - 1) * amp
			e.controls = e.controls.Clamped()
		}
	}
}

// headwindComponent resolves the wind vector along the given track: positive
// is a headwind, negative a tailwind.
func headwindComponent(trackDeg, windDirDeg, windSpeedKt float64) float64 {
	diff := math.Abs(trackDeg - windDirDeg)
	if diff > 180 {
		diff = 360 - diff
	}
	component := windSpeedKt * math.Cos(diff*math.Pi/180)
	return component
}

func turbulenceAmplitude(t types.Turbulence) float64 {
	switch t {
	case types.TurbulenceLight:
		return 0.02
	case types.TurbulenceModerate:
		return 0.06
	case types.TurbulenceSevere:
		return 0.15
	default:
		return 0
	}
}

func (e *Engine) evaluateWarnings(st types.FlightState, mach float64) []types.Warning {
	var out []types.Warning
	add := func(code, msg string) {
		out = append(out, types.Warning{Code: code, Message: msg})
		e.metrics.IncWarning(code)
	}

	if st.FuelKg < lowFuelThresholdKg {
		add(types.WarnLowFuel, fmt.Sprintf("fuel remaining %.0f kg below %d kg", st.FuelKg, lowFuelThresholdKg))
	}
	for i, eng := range st.Engines {
		if eng.TempC > engineOverTempC {
			add(types.WarnEngineOverheat, fmt.Sprintf("engine %d temperature %.0f C above %d C", i+1, eng.TempC, engineOverTempC))
		}
	}
	if st.Position.AltitudeFt > e.cfg.Spec.MaxAltitudeFt {
		add(types.WarnOverAltitude, fmt.Sprintf("altitude %.0f ft above ceiling %.0f ft", st.Position.AltitudeFt, e.cfg.Spec.MaxAltitudeFt))
	}
	if mach > e.cfg.Spec.MaxMach {
		add(types.WarnOverspeed, fmt.Sprintf("Mach %.3f above limit %.2f", mach, e.cfg.Spec.MaxMach))
	}

	for _, w := range out {
		e.log.Warn("flight warning", "code", w.Code, "detail", w.Message, "flight_id", e.flightID)
	}
	return out
}

// validate is the commit gate: a staged state violating a core invariant
// aborts the tick instead of being swapped in.
func validate(st types.FlightState) error {
	switch {
	case st.HeadingDeg < 0 || st.HeadingDeg >= 360:
		return fmt.Errorf("heading %v out of range", st.HeadingDeg)
	case st.FuelKg < 0:
		return fmt.Errorf("negative fuel %v", st.FuelKg)
	case st.GrossWeightKg < 0:
		return fmt.Errorf("negative weight %v", st.GrossWeightKg)
	case st.TrueAirspeedKt < 0 || st.GroundSpeedKt < 0:
		return fmt.Errorf("negative speed")
	case st.Position.AltitudeFt < 0:
		return fmt.Errorf("negative altitude %v", st.Position.AltitudeFt)
	}
	return nil
}
