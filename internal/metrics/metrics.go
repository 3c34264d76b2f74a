// Package metrics exposes Prometheus counters for the auth flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service and middleware layers report to.
type Recorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
	RecordCredentialMigration(outcome string)
	RecordCompensation(outcome string)
	RecordGuardRejection(reason string)
}

type Collector struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	migrations    *prometheus.CounterVec
	compensations *prometheus.CounterVec
	guard         *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "odonto_auth_registrations_total",
			Help: "Signup attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "odonto_auth_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "odonto_auth_credential_migrations_total",
			Help: "Legacy plaintext credentials rehashed on login, by outcome.",
		}, []string{"outcome"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "odonto_auth_identity_compensations_total",
			Help: "Identity rollbacks after a failed profile insert, by outcome.",
		}, []string{"outcome"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "odonto_auth_guard_rejections_total",
			Help: "Requests rejected by the session guard, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(c.registrations, c.logins, c.migrations, c.compensations, c.guard)
	return c
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordCredentialMigration(outcome string) {
	c.migrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordCompensation(outcome string) {
	c.compensations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordGuardRejection(reason string) {
	c.guard.WithLabelValues(reason).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRegistration(string)        {}
func (Nop) RecordLogin(string)               {}
func (Nop) RecordCredentialMigration(string) {}
func (Nop) RecordCompensation(string)        {}
func (Nop) RecordGuardRejection(string)      {}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
