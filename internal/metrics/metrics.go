// Package metrics exposes authentication and session activity to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "finboard"

// Login outcomes recorded by LoginAttempt.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeRateLimited        = "rate_limited"
	OutcomeError              = "error"
)

// Collector is a prometheus.Collector for the auth and session layers.
type Collector struct {
	registrations  prometheus.Counter
	loginAttempts  *prometheus.CounterVec
	activeSessions prometheus.Gauge
	sweptSessions  prometheus.Counter
}

func NewCollector() *Collector {
	return &Collector{
		registrations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "registrations_total",
				Help:      "The number of users registered.",
			},
		),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "login_attempts_total",
				Help:      "The number of login attempts by outcome.",
			}, []string{"outcome"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "active_sessions",
				Help:      "The number of sessions held after the last sweep.",
			},
		),
		sweptSessions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "swept_sessions_total",
				Help:      "The number of expired sessions removed by the sweeper.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.registrations.Describe(ch)
	c.loginAttempts.Describe(ch)
	c.activeSessions.Describe(ch)
	c.sweptSessions.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registrations.Collect(ch)
	c.loginAttempts.Collect(ch)
	c.activeSessions.Collect(ch)
	c.sweptSessions.Collect(ch)
}

func (c *Collector) Registered() {
	c.registrations.Inc()
}

func (c *Collector) LoginAttempt(outcome string) {
	c.loginAttempts.WithLabelValues(outcome).Inc()
}

// SessionsSwept matches session.SweepObserver.
func (c *Collector) SessionsSwept(removed, active int) {
	c.sweptSessions.Add(float64(removed))
	c.activeSessions.Set(float64(active))
}
