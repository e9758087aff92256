package dynamics

import (
	"math"
	"math/rand"

	"github.com/aeroops/flightcore/pkg/geo"
	"github.com/aeroops/flightcore/pkg/types"
)

// PointMassConfig tunes the built-in integrator.
type PointMassConfig struct {
	MinSpeedMps  float64 // forward speed at zero throttle
	MaxSpeedMps  float64 // forward speed at full throttle
	AccelMps2    float64 // longitudinal acceleration limit
	VertAccel    float64 // vertical acceleration limit, m/s^2
	MaxClimbFpm  float64 // vertical speed at full pitch command
	TurnRateDegS float64 // yaw rate at full roll command
	NoiseAmp     float64 // velocity noise amplitude, m/s (0 disables)
	Seed         int64
}

// DefaultPointMassConfig returns tuning for a generic transport aircraft.
func DefaultPointMassConfig() PointMassConfig {
	return PointMassConfig{
		MinSpeedMps:  60,
		MaxSpeedMps:  270,
		AccelMps2:    2.0,
		VertAccel:    3.0,
		MaxClimbFpm:  6000,
		TurnRateDegS: 3.0,
	}
}

// PointMass is a kinematic point-mass integrator: throttle commands forward
// speed, pitch commands vertical speed, roll commands yaw rate. It satisfies
// the Provider contract well enough to fly the engine without an external
// physics service.
type PointMass struct {
	cfg PointMassConfig
	rng *rand.Rand

	speedMps   float64
	headingDeg float64
	vsMps      float64
	pitchDeg   float64
	rollDeg    float64
}

// NewPointMass creates a point-mass provider at its initial trim state.
func NewPointMass(cfg PointMassConfig) *PointMass {
	p := &PointMass{cfg: cfg}
	if cfg.NoiseAmp > 0 {
		p.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	p.Reset()
	return p
}

// Reset returns the integrator to its initial trim state: cruise speed for
// 50% throttle, heading north, level flight.
func (p *PointMass) Reset() {
	p.speedMps = p.targetSpeed(50)
	p.headingDeg = 0
	p.vsMps = 0
	p.pitchDeg = 0
	p.rollDeg = 0
	if p.rng != nil {
		p.rng = rand.New(rand.NewSource(p.cfg.Seed))
	}
}

// Advance integrates one step and returns the resulting delta.
func (p *PointMass) Advance(controls types.ControlInputs, elapsedSec float64) Delta {
	controls = controls.Clamped()

	prevPitch, prevRoll, prevHeading := p.pitchDeg, p.rollDeg, p.headingDeg

	p.speedMps = approach(p.speedMps, p.targetSpeed(controls.ThrottlePct), p.cfg.AccelMps2*elapsedSec)
	p.vsMps = approach(p.vsMps, controls.Pitch*geo.FtMinToMps(p.cfg.MaxClimbFpm), p.cfg.VertAccel*elapsedSec)
	p.headingDeg = geo.NormalizeHeading(p.headingDeg + controls.Roll*p.cfg.TurnRateDegS*elapsedSec + controls.Yaw*p.cfg.TurnRateDegS*0.2*elapsedSec)

	// Attitude follows the commands directly.
	p.pitchDeg = controls.Pitch * 15
	p.rollDeg = controls.Roll * 25

	hdgRad := p.headingDeg * math.Pi / 180
	vel := types.Vec3{
		X: p.speedMps * math.Sin(hdgRad),
		Y: p.speedMps * math.Cos(hdgRad),
		Z: p.vsMps,
	}
	if p.rng != nil {
		vel.X += (p.rng.Float64()*2 - 1) * p.cfg.NoiseAmp
		vel.Y += (p.rng.Float64()*2 - 1) * p.cfg.NoiseAmp
		vel.Z += (p.rng.Float64()*2 - 1) * p.cfg.NoiseAmp * 0.2
	}

	return Delta{
		Velocity: vel,
		Position: types.Vec3{X: vel.X * elapsedSec, Y: vel.Y * elapsedSec, Z: vel.Z * elapsedSec},
		Rotation: types.Vec3{X: p.pitchDeg - prevPitch, Y: p.rollDeg - prevRoll, Z: geo.HeadingError(p.headingDeg, prevHeading)},
	}
}

func (p *PointMass) targetSpeed(throttlePct float64) float64 {
	return p.cfg.MinSpeedMps + throttlePct/100*(p.cfg.MaxSpeedMps-p.cfg.MinSpeedMps)
}

// approach moves cur toward target by at most maxStep.
func approach(cur, target, maxStep float64) float64 {
	diff := target - cur
	if diff > maxStep {
		return cur + maxStep
	}
	if diff < -maxStep {
		return cur - maxStep
	}
	return target
}
