// Package engine is the tick orchestrator: it owns the canonical
// FlightState, sequences the per-tick modules, and exposes the command
// surface the API layers call.
package engine

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aeroops/flightcore/internal/autopilot"
	"github.com/aeroops/flightcore/internal/diversion"
	"github.com/aeroops/flightcore/internal/dynamics"
	"github.com/aeroops/flightcore/internal/emergency"
	"github.com/aeroops/flightcore/internal/fuel"
	"github.com/aeroops/flightcore/internal/observability"
	"github.com/aeroops/flightcore/internal/state"
	"github.com/aeroops/flightcore/pkg/types"
)

// RunState is the orchestrator's lifecycle state.
type RunState int

const (
	Active RunState = iota
	Paused
)

func (s RunState) String() string {
	if s == Paused {
		return "paused"
	}
	return "active"
}

// Config holds the engine's fixed inputs.
type Config struct {
	Spec    types.AircraftSpec
	Initial state.InitialConditions
	// Seed drives the engine-parameter and turbulence noise. A fixed seed
	// makes a run reproducible.
	Seed    int64
	Logger  *slog.Logger
	Metrics *observability.Collector
}

// Engine drives one simulated flight. All mutations go through its mutex:
// exactly one tick is in flight at a time, and command operations are
// serialized against ticks. Reads go through Snapshot and never block a
// tick for long.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	dyn   dynamics.Provider
	rates fuel.RateProvider

	mgr      *state.Manager
	controls types.ControlInputs // last applied, consumed by the provider next tick
	manual   types.ControlInputs // raw pilot inputs, used while autopilot is off
	runState RunState
	lastTick time.Time
	flightID uuid.UUID
	rng      *rand.Rand

	log     *slog.Logger
	metrics *observability.Collector

	subMu sync.Mutex
	subs  map[chan types.FlightState]struct{}
}

// New creates an engine at the documented initial conditions, Active, with a
// fresh flight-session ID.
func New(cfg Config, dyn dynamics.Provider, rates fuel.RateProvider) *Engine {
	if cfg.Spec == (types.AircraftSpec{}) {
		cfg.Spec = types.DefaultAircraftSpec()
	}
	if cfg.Initial == (state.InitialConditions{}) {
		cfg.Initial = state.DefaultInitialConditions()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		cfg:     cfg,
		dyn:     dyn,
		rates:   rates,
		log:     log,
		metrics: cfg.Metrics,
		subs:    make(map[chan types.FlightState]struct{}),
	}
	e.initLocked()
	return e
}

// initLocked applies the fixed initial conditions. Callers hold e.mu (or are
// the constructor).
func (e *Engine) initLocked() {
	initial := state.Initial(e.cfg.Spec, e.cfg.Initial)
	if e.mgr == nil {
		e.mgr = state.NewManager(initial)
	} else {
		e.mgr.Replace(initial)
	}
	e.controls = types.ControlInputs{ThrottlePct: e.cfg.Initial.ThrottlePct}
	e.manual = e.controls
	e.runState = Active
	e.lastTick = time.Time{}
	e.flightID = uuid.New()
	e.rng = rand.New(rand.NewSource(e.cfg.Seed))
	if r, ok := e.dyn.(dynamics.Resettable); ok {
		r.Reset()
	}
}

// Reset reinitializes the flight state, controls, and dynamics provider to
// the documented initial conditions and mints a new flight-session ID.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initLocked()
	e.log.Info("simulation reset", "flight_id", e.flightID)
}

// Pause stops tick processing without discarding state.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runState = Paused
}

// Resume reactivates tick processing. The elapsed-time baseline is reset so
// the paused interval contributes no time debt.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runState = Active
	e.lastTick = time.Time{}
}

// RunState returns the current lifecycle state.
func (e *Engine) RunState() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runState
}

// FlightID returns the current flight-session ID. A new ID is minted at
// construction and on every Reset.
func (e *Engine) FlightID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flightID
}

// Snapshot returns an immutable copy of the current flight state.
func (e *Engine) Snapshot() types.FlightState {
	return e.mgr.Snapshot()
}

// Controls returns the last applied control inputs.
func (e *Engine) Controls() types.ControlInputs {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controls
}

// SetManualControls stores raw pilot inputs, clamped to their valid ranges.
// They take effect on the next tick while the autopilot is disengaged.
func (e *Engine) SetManualControls(c types.ControlInputs) types.ControlInputs {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.manual = c.Clamped()
	return e.manual
}

// SetAutopilotTarget is the single entry point for changing autopilot
// targets. All range clamping happens here: altitude into [0,45000] ft,
// heading wrapped into [0,360), airspeed into [100,600] kt. The stored
// (clamped) target is returned.
func (e *Engine) SetAutopilotTarget(t types.AutopilotTarget) types.AutopilotTarget {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.mgr.Snapshot()
	mode := st.Autopilot.Mode
	if t.Mode != "" {
		mode = t.Mode
	}
	st.Autopilot = types.AutopilotTarget{
		Engaged:    t.Engaged,
		Mode:       mode,
		AltitudeFt: autopilot.ClampTargetAltitude(t.AltitudeFt),
		HeadingDeg: autopilot.ClampTargetHeading(t.HeadingDeg),
		AirspeedKt: autopilot.ClampTargetAirspeed(t.AirspeedKt),
	}
	e.mgr.Replace(st)
	return st.Autopilot
}

// SetWeather replaces the ambient weather snapshot.
func (e *Engine) SetWeather(w types.Weather) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.mgr.Snapshot()
	st.Weather = w
	e.mgr.Replace(st)
}

// DeclareEmergency transitions to Declared(kind), applying the kind-specific
// side effects, and returns the resulting status. Declaring over an existing
// emergency overwrites it.
func (e *Engine) DeclareEmergency(kind types.EmergencyKind) types.EmergencyStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := emergency.Declare(e.mgr.Snapshot(), kind, time.Now().UTC())
	if kind == types.EmergencyEngine {
		// The throttle cap applies to the stored controls too, or the next
		// tick would undo it.
		if e.controls.ThrottlePct > st.ThrottlePct {
			e.controls.ThrottlePct = st.ThrottlePct
		}
		if e.manual.ThrottlePct > st.ThrottlePct {
			e.manual.ThrottlePct = st.ThrottlePct
		}
	}
	e.mgr.Replace(st)
	e.metrics.SetEmergency(true)
	e.log.Warn("emergency declared", "kind", kind.String(), "flight_id", e.flightID)
	return st.Emergency
}

// ClearEmergency returns to Normal and restores the CRUISE mode tag.
// Clearing while Normal is a no-op.
func (e *Engine) ClearEmergency() {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.mgr.Snapshot()
	if !st.Emergency.Declared {
		return
	}
	e.mgr.Replace(emergency.Clear(st))
	e.metrics.SetEmergency(false)
	e.log.Info("emergency cleared", "flight_id", e.flightID)
}

// EvaluateDiversion runs the feasibility analysis against the current
// snapshot. It is read-only and may run concurrently with ticks.
func (e *Engine) EvaluateDiversion(q types.DiversionQuery) (types.DiversionResult, error) {
	return diversion.Evaluate(e.mgr.Snapshot(), q)
}

// Subscribe returns a channel receiving every committed snapshot and an
// unsubscribe function. Slow subscribers drop frames rather than stalling
// the tick loop.
func (e *Engine) Subscribe() (<-chan types.FlightState, func()) {
	ch := make(chan types.FlightState, 32)
	e.subMu.Lock()
	e.subs[ch] = struct{}{}
	e.subMu.Unlock()

	unsub := func() {
		e.subMu.Lock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
		e.subMu.Unlock()
	}
	return ch, unsub
}

func (e *Engine) publish(st types.FlightState) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- st.Clone():
		default:
		}
	}
}
