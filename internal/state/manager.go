// Package state holds the canonical FlightState snapshot and the pure
// transform that absorbs one dynamics delta.
package state

import (
	"sync"
	"time"

	"github.com/aeroops/flightcore/pkg/types"
)

// Manager holds the authoritative FlightState behind a read-write lock.
// The tick orchestrator is the single writer; it stages a complete new state
// and commits it with Replace, so readers never observe a half-applied tick.
type Manager struct {
	mu          sync.RWMutex
	state       types.FlightState
	lastUpdated time.Time
}

// NewManager creates a Manager seeded with the given state.
func NewManager(initial types.FlightState) *Manager {
	return &Manager{state: initial.Clone()}
}

// Replace swaps in a complete new state and records the current time.
func (m *Manager) Replace(st types.FlightState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	m.lastUpdated = time.Now()
}

// Snapshot returns an immutable deep copy of the current state. Callers
// never receive a live reference.
func (m *Manager) Snapshot() types.FlightState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// LastUpdated returns the time of the most recent Replace, or zero if the
// state has never been replaced since construction.
func (m *Manager) LastUpdated() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdated
}
