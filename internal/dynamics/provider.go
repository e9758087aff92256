// Package dynamics defines the contract with the external physics integrator
// and ships a built-in point-mass implementation used by the binaries and
// the end-to-end tests.
package dynamics

import "github.com/aeroops/flightcore/pkg/types"

// Delta is one integration step's raw output. The engine trusts these values
// as-is; it does not sanitize non-finite numbers (the provider contract
// requires finite output).
type Delta struct {
	// Velocity is the new earth-frame velocity in m/s (X east, Y north, Z up).
	Velocity types.Vec3
	// Position is the displacement over the step in meters.
	Position types.Vec3
	// Rotation is the attitude change over the step in degrees
	// (X pitch, Y roll, Z yaw).
	Rotation types.Vec3
}

// Provider turns control inputs over an elapsed interval into a raw state
// delta. Calls are synchronous; output need not be deterministic (a provider
// may model internal physics noise) but must be finite.
type Provider interface {
	Advance(controls types.ControlInputs, elapsedSec float64) Delta
}

// Resettable is implemented by providers that carry internal state the
// simulation reset must reinitialize.
type Resettable interface {
	Reset()
}
