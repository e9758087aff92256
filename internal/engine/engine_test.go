package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroops/flightcore/internal/dynamics"
	"github.com/aeroops/flightcore/internal/state"
	"github.com/aeroops/flightcore/pkg/geo"
	"github.com/aeroops/flightcore/pkg/types"
)

// perfectDynamics honors pitch commands exactly and instantly: vertical
// speed is the commanded climb rate, forward speed is constant, heading
// follows roll at a fixed rate.
type perfectDynamics struct {
	speedMps float64
}

func (p *perfectDynamics) Advance(c types.ControlInputs, dt float64) dynamics.Delta {
	c = c.Clamped()
	vz := geo.FtMinToMps(c.Pitch * 6000)
	vel := types.Vec3{Y: p.speedMps, Z: vz}
	return dynamics.Delta{
		Velocity: vel,
		Position: types.Vec3{X: vel.X * dt, Y: vel.Y * dt, Z: vel.Z * dt},
		Rotation: types.Vec3{Z: c.Roll * 3 * dt},
	}
}

// fixedRate is a stub envelope returning a constant hourly burn.
type fixedRate struct{ kgH float64 }

func (f fixedRate) FuelConsumptionRate(altitudeFt, mach, weightKg float64, regime string) float64 {
	return f.kgH
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Config{}, &perfectDynamics{speedMps: 165}, fixedRate{kgH: 5000})
}

func TestClampIdempotence(t *testing.T) {
	e := newTestEngine(t)

	got := e.SetAutopilotTarget(types.AutopilotTarget{
		Engaged:    true,
		AltitudeFt: 50000,
		HeadingDeg: 370,
		AirspeedKt: 50,
	})
	assert.Equal(t, 45000.0, got.AltitudeFt)
	assert.InDelta(t, 10, got.HeadingDeg, 1e-9)
	assert.Equal(t, 100.0, got.AirspeedKt)

	// Setting the already-clamped values stores them unchanged.
	again := e.SetAutopilotTarget(got)
	assert.Equal(t, got, again)
}

func TestAltitudeHoldConvergence(t *testing.T) {
	cfg := Config{Initial: state.DefaultInitialConditions()}
	cfg.Initial.AltitudeFt = 34000
	e := New(cfg, &perfectDynamics{speedMps: 165}, fixedRate{kgH: 5000})

	e.SetAutopilotTarget(types.AutopilotTarget{
		Engaged:    true,
		AltitudeFt: 35000,
		HeadingDeg: 0,
		AirspeedKt: 320,
	})

	// First tick computes the initial pitch command from zero controls.
	require.NoError(t, e.Step(5))

	prevErr := math.Abs(35000 - e.Snapshot().Position.AltitudeFt)
	for i := 0; i < 1000 && prevErr > 100; i++ {
		require.NoError(t, e.Step(5))
		err := math.Abs(35000 - e.Snapshot().Position.AltitudeFt)
		assert.Less(t, err, prevErr, "altitude error must shrink tick-over-tick")
		prevErr = err
	}
	assert.LessOrEqual(t, prevErr, 100.0, "must converge into the deadband")
}

func TestHeadingHoldConverges(t *testing.T) {
	e := newTestEngine(t)
	e.SetAutopilotTarget(types.AutopilotTarget{
		Engaged:    true,
		AltitudeFt: 35000,
		HeadingDeg: 90,
		AirspeedKt: 320,
	})

	for i := 0; i < 500; i++ {
		require.NoError(t, e.Step(1))
	}
	err := math.Abs(geo.HeadingError(90, e.Snapshot().HeadingDeg))
	assert.LessOrEqual(t, err, 2.5)
}

func TestFuelBurnReducesFuelAndWeight(t *testing.T) {
	e := newTestEngine(t)
	before := e.Snapshot()

	require.NoError(t, e.Step(3600)) // one hour at 5000 kg/h
	after := e.Snapshot()

	assert.InDelta(t, before.FuelKg-5000, after.FuelKg, 1e-6)
	assert.InDelta(t, types.DefaultAircraftSpec().EmptyWeightKg+after.FuelKg, after.GrossWeightKg, 1e-6)
	assert.InDelta(t, 5000, after.Performance.FuelFlowKgH, 1e-9)
	assert.Positive(t, after.Performance.RangeNM)
}

func TestTickNonNegativityUnderExhaustion(t *testing.T) {
	cfg := Config{Initial: state.DefaultInitialConditions()}
	cfg.Initial.FuelKg = 100
	e := New(cfg, &perfectDynamics{speedMps: 165}, fixedRate{kgH: 50000})

	for i := 0; i < 20; i++ {
		require.NoError(t, e.Step(60))
		st := e.Snapshot()
		assert.GreaterOrEqual(t, st.FuelKg, 0.0)
		assert.GreaterOrEqual(t, st.GrossWeightKg, 0.0)
		assert.GreaterOrEqual(t, st.TrueAirspeedKt, 0.0)
		assert.GreaterOrEqual(t, st.GroundSpeedKt, 0.0)
		assert.GreaterOrEqual(t, st.HeadingDeg, 0.0)
		assert.Less(t, st.HeadingDeg, 360.0)
	}
	assert.Zero(t, e.Snapshot().FuelKg)
}

func TestEmergencyRoundTripThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	e.SetManualControls(types.ControlInputs{ThrottlePct: 90})
	require.NoError(t, e.Step(1)) // apply manual throttle

	st := e.DeclareEmergency(types.EmergencyEngine)
	assert.True(t, st.Declared)
	assert.Equal(t, 80.0, e.Snapshot().ThrottlePct)

	e.ClearEmergency()
	after := e.Snapshot()
	assert.False(t, after.Emergency.Declared)
	assert.Equal(t, types.ModeCruise, after.Autopilot.Mode)
	// The clamp survives ticks: stored controls were capped too.
	require.NoError(t, e.Step(1))
	assert.Equal(t, 80.0, e.Snapshot().ThrottlePct)
}

func TestPressurizationEmergencyForcesDescentTarget(t *testing.T) {
	e := newTestEngine(t)
	e.DeclareEmergency(types.EmergencyPressurization)
	assert.Equal(t, 10000.0, e.Snapshot().Autopilot.AltitudeFt)
}

func TestResetIdempotence(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, e.Step(1))
	}
	e.DeclareEmergency(types.EmergencyMedical)

	e.Reset()
	first := e.Snapshot()
	e.Reset()
	second := e.Snapshot()

	require.Equal(t, first, second)
	assert.False(t, first.Emergency.Declared)
	assert.Empty(t, first.Warnings)
}

func TestResetMintsNewFlightID(t *testing.T) {
	e := newTestEngine(t)
	id := e.FlightID()
	e.Reset()
	assert.NotEqual(t, id, e.FlightID())
}

func TestPauseSkipsTicksAndResumeDropsTimeDebt(t *testing.T) {
	e := newTestEngine(t)
	e.Pause()
	assert.Equal(t, Paused, e.RunState())

	before := e.Snapshot()
	require.NoError(t, e.Step(60))
	assert.Equal(t, before, e.Snapshot())

	e.Resume()
	assert.Equal(t, Active, e.RunState())

	// The first wall-clock update after Resume only re-arms the baseline;
	// no paused-interval time debt is applied.
	t0 := time.Now()
	require.NoError(t, e.updateAt(t0))
	assert.Equal(t, before, e.Snapshot())

	require.NoError(t, e.updateAt(t0.Add(time.Second)))
	assert.NotEqual(t, before.Position, e.Snapshot().Position)
}

func TestWindReducesGroundSpeed(t *testing.T) {
	e := newTestEngine(t)
	e.SetWeather(types.Weather{WindSpeedKt: 50, WindDirDeg: 0, Turbulence: types.TurbulenceNone, VisibilityNM: 10})

	require.NoError(t, e.Step(1))
	st := e.Snapshot()
	// Heading north into a 50 kt northerly: ground speed is TAS minus 50.
	assert.InDelta(t, st.TrueAirspeedKt-50, st.GroundSpeedKt, 1e-6)
}

func TestTurbulencePerturbsManualControlsOnly(t *testing.T) {
	e := newTestEngine(t)
	e.SetWeather(types.Weather{Turbulence: types.TurbulenceSevere, VisibilityNM: 5})
	e.SetManualControls(types.ControlInputs{ThrottlePct: 50})

	perturbed := false
	for i := 0; i < 10; i++ {
		require.NoError(t, e.Step(1))
		c := e.Controls()
		if c.Pitch != 0 || c.Roll != 0 || c.Yaw != 0 {
			perturbed = true
		}
	}
	assert.True(t, perturbed, "manual controls must feel severe turbulence")

	// Autopilot-computed controls never do: yaw stays hard zero.
	e.SetAutopilotTarget(types.AutopilotTarget{Engaged: true, AltitudeFt: 35000, HeadingDeg: 0, AirspeedKt: 320})
	for i := 0; i < 10; i++ {
		require.NoError(t, e.Step(1))
		assert.Zero(t, e.Controls().Yaw)
	}
}

func TestLowFuelWarning(t *testing.T) {
	cfg := Config{Initial: state.DefaultInitialConditions()}
	cfg.Initial.FuelKg = 9000
	e := New(cfg, &perfectDynamics{speedMps: 165}, fixedRate{kgH: 5000})

	require.NoError(t, e.Step(1))
	codes := warningCodes(e.Snapshot())
	assert.Contains(t, codes, types.WarnLowFuel)
}

func TestOverspeedAndCeilingWarnings(t *testing.T) {
	cfg := Config{Initial: state.DefaultInitialConditions()}
	cfg.Initial.AltitudeFt = 44000
	cfg.Initial.SpeedMps = 280 // well past Mach 0.86 up high
	e := New(cfg, &perfectDynamics{speedMps: 280}, fixedRate{kgH: 5000})

	require.NoError(t, e.Step(1))
	codes := warningCodes(e.Snapshot())
	assert.Contains(t, codes, types.WarnOverAltitude)
	assert.Contains(t, codes, types.WarnOverspeed)
}

func TestEngineOverheatWarning(t *testing.T) {
	cfg := Config{Initial: state.DefaultInitialConditions()}
	cfg.Initial.AltitudeFt = 43000
	e := New(cfg, &perfectDynamics{speedMps: 165}, fixedRate{kgH: 5000})

	// Sustained full throttle up at the ceiling pushes every engine past
	// 900 C even at the low end of the temperature noise.
	e.SetManualControls(types.ControlInputs{ThrottlePct: 100})
	require.NoError(t, e.Step(1))

	st := e.Snapshot()
	for _, eng := range st.Engines {
		assert.Greater(t, eng.TempC, 900.0)
	}
	assert.Contains(t, warningCodes(st), types.WarnEngineOverheat)
}

func TestEngineParametersMirrorThrottle(t *testing.T) {
	e := newTestEngine(t)
	e.SetManualControls(types.ControlInputs{ThrottlePct: 73})
	require.NoError(t, e.Step(1))
	require.NoError(t, e.Step(1))

	st := e.Snapshot()
	require.Len(t, st.Engines, 2)
	for _, eng := range st.Engines {
		assert.Equal(t, 73.0, eng.ThrustPct)
		assert.Positive(t, eng.TempC)
		assert.Positive(t, eng.FuelFlowKgH)
	}
}

func TestEvaluateDiversionThroughEngine(t *testing.T) {
	e := newTestEngine(t)

	// Before any tick there is no consumption rate: precondition error.
	_, err := e.EvaluateDiversion(types.DiversionQuery{Latitude: 48, Longitude: -122})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPrecondition)

	require.NoError(t, e.Step(1))
	res, err := e.EvaluateDiversion(types.DiversionQuery{Latitude: 48, Longitude: -122})
	require.NoError(t, err)
	assert.Positive(t, res.DistanceNM)
	assert.True(t, res.Feasible)
}

func TestSubscribeReceivesCommittedTicks(t *testing.T) {
	e := newTestEngine(t)
	ch, unsub := e.Subscribe()
	defer unsub()

	require.NoError(t, e.Step(1))
	select {
	case st := <-ch:
		assert.Positive(t, st.GroundSpeedKt)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func warningCodes(st types.FlightState) []string {
	out := make([]string, 0, len(st.Warnings))
	for _, w := range st.Warnings {
		out = append(out, w.Code)
	}
	return out
}
