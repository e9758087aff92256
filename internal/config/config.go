// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/aeroops/flightcore/internal/state"
	"github.com/aeroops/flightcore/pkg/types"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Sim      SimConfig
	Aircraft AircraftConfig
	Log      LogConfig
}

// ServerConfig holds the REST/metrics listener settings.
type ServerConfig struct {
	Addr string
}

// SimConfig holds tick-loop and dynamics settings.
type SimConfig struct {
	TickInterval time.Duration
	Seed         int64
	NoiseAmp     float64
}

// AircraftConfig holds the airframe constants and initial conditions.
type AircraftConfig struct {
	EmptyWeightKg float64
	MaxAltitudeFt float64
	MaxMach       float64
	EngineCount   int

	InitialLatitude  float64
	InitialLongitude float64
	InitialAltFt     float64
	InitialHeading   float64
	InitialSpeedMps  float64
	InitialThrottle  float64
	InitialFuelKg    float64
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	Dir   string
}

// Load reads configuration from environment variables, falling back to
// defaults.
func Load() Config {
	spec := types.DefaultAircraftSpec()
	ic := state.DefaultInitialConditions()

	return Config{
		Server: ServerConfig{
			Addr: getEnvString("FLIGHTCORE_ADDR", ":8080"),
		},
		Sim: SimConfig{
			TickInterval: getEnvDuration("FLIGHTCORE_TICK_INTERVAL", 250*time.Millisecond),
			Seed:         int64(getEnvInt("FLIGHTCORE_SEED", 0)),
			NoiseAmp:     getEnvFloat("FLIGHTCORE_NOISE_AMP", 0.5),
		},
		Aircraft: AircraftConfig{
			EmptyWeightKg: getEnvFloat("FLIGHTCORE_EMPTY_WEIGHT_KG", spec.EmptyWeightKg),
			MaxAltitudeFt: getEnvFloat("FLIGHTCORE_MAX_ALTITUDE_FT", spec.MaxAltitudeFt),
			MaxMach:       getEnvFloat("FLIGHTCORE_MAX_MACH", spec.MaxMach),
			EngineCount:   getEnvInt("FLIGHTCORE_ENGINE_COUNT", spec.EngineCount),

			InitialLatitude:  getEnvFloat("FLIGHTCORE_INITIAL_LAT", ic.Latitude),
			InitialLongitude: getEnvFloat("FLIGHTCORE_INITIAL_LON", ic.Longitude),
			InitialAltFt:     getEnvFloat("FLIGHTCORE_INITIAL_ALT_FT", ic.AltitudeFt),
			InitialHeading:   getEnvFloat("FLIGHTCORE_INITIAL_HEADING", ic.HeadingDeg),
			InitialSpeedMps:  getEnvFloat("FLIGHTCORE_INITIAL_SPEED_MPS", ic.SpeedMps),
			InitialThrottle:  getEnvFloat("FLIGHTCORE_INITIAL_THROTTLE", ic.ThrottlePct),
			InitialFuelKg:    getEnvFloat("FLIGHTCORE_INITIAL_FUEL_KG", ic.FuelKg),
		},
		Log: LogConfig{
			Level: getEnvString("FLIGHTCORE_LOG_LEVEL", "info"),
			Dir:   getEnvString("FLIGHTCORE_LOG_DIR", ""),
		},
	}
}

// Spec converts the aircraft section into the engine's AircraftSpec.
func (c AircraftConfig) Spec() types.AircraftSpec {
	return types.AircraftSpec{
		EmptyWeightKg: c.EmptyWeightKg,
		MaxAltitudeFt: c.MaxAltitudeFt,
		MaxMach:       c.MaxMach,
		EngineCount:   c.EngineCount,
	}
}

// InitialConditions converts the aircraft section into the engine's fixed
// starting values.
func (c AircraftConfig) InitialConditions() state.InitialConditions {
	return state.InitialConditions{
		Latitude:    c.InitialLatitude,
		Longitude:   c.InitialLongitude,
		AltitudeFt:  c.InitialAltFt,
		HeadingDeg:  c.InitialHeading,
		SpeedMps:    c.InitialSpeedMps,
		ThrottlePct: c.InitialThrottle,
		FuelKg:      c.InitialFuelKg,
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
