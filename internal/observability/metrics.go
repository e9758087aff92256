// Package observability bundles the engine's Prometheus metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aeroops/flightcore/pkg/types"
)

// Collector bundles the engine's Prometheus metrics. A nil *Collector is a
// valid no-op, so the engine never has to branch on whether metrics are
// wired.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram

	AltitudeFt    prometheus.Gauge
	GroundSpeedKt prometheus.Gauge
	FuelKg        prometheus.Gauge
	Emergency     prometheus.Gauge

	Warnings *prometheus.CounterVec
}

// NewCollector registers the engine metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightcore_ticks_total",
			Help: "Total number of committed simulation ticks.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flightcore_tick_duration_seconds",
			Help:    "Wall time spent computing one tick.",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		AltitudeFt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flightcore_altitude_feet",
			Help: "Current altitude in feet.",
		}),
		GroundSpeedKt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flightcore_ground_speed_knots",
			Help: "Current ground speed in knots.",
		}),
		FuelKg: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flightcore_fuel_kg",
			Help: "Fuel remaining in kilograms.",
		}),
		Emergency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flightcore_emergency_active",
			Help: "1 while an emergency is declared, 0 otherwise.",
		}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightcore_warnings_total",
			Help: "Warning events surfaced by the tick orchestrator, by code.",
		}, []string{"code"}),
	}

	for _, col := range []prometheus.Collector{
		c.Ticks, c.TickDuration, c.AltitudeFt, c.GroundSpeedKt, c.FuelKg, c.Emergency, c.Warnings,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveTick records one committed tick and refreshes the state gauges.
func (c *Collector) ObserveTick(d time.Duration, st types.FlightState) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDuration.Observe(d.Seconds())
	c.AltitudeFt.Set(st.Position.AltitudeFt)
	c.GroundSpeedKt.Set(st.GroundSpeedKt)
	c.FuelKg.Set(st.FuelKg)
}

// IncWarning counts one warning event for the given code.
func (c *Collector) IncWarning(code string) {
	if c == nil {
		return
	}
	c.Warnings.WithLabelValues(code).Inc()
}

// SetEmergency flips the emergency gauge.
func (c *Collector) SetEmergency(active bool) {
	if c == nil {
		return
	}
	if active {
		c.Emergency.Set(1)
	} else {
		c.Emergency.Set(0)
	}
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
