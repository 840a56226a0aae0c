// Package metrics exposes Prometheus collectors for draws and storage calls.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

const namespace = "foodpicker"

// Metrics groups the application collectors
type Metrics struct {
	draws      *prometheus.CounterVec
	eligible   prometheus.Histogram
	storeOps   *prometheus.CounterVec
	reinits    prometheus.Counter
	sessions   prometheus.Gauge
	catalogLen prometheus.Gauge
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		draws: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Draws performed, by scenario and outcome.",
		}, []string{"scenario", "outcome"}),
		eligible: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "draw_eligible_items",
			Help:      "Size of the eligible set at draw time.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Catalog and preference store calls, by operation and result.",
		}, []string{"operation", "result"}),
		reinits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_reinitializations_total",
			Help:      "Automatic storage re-initializations after an unavailable backend.",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wizard_sessions",
			Help:      "Active selection wizard sessions.",
		}),
		catalogLen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_foods",
			Help:      "Foods in the catalog after the last reinitialization or startup.",
		}),
	}
}

// ObserveDraw records one draw
func (m *Metrics) ObserveDraw(scenario models.Scenario, outcome models.DrawOutcome, eligible int) {
	if m == nil {
		return
	}
	m.draws.WithLabelValues(string(scenario), string(outcome)).Inc()
	if outcome != models.DrawOutcomeError {
		m.eligible.Observe(float64(eligible))
	}
}

// StoreOp records a store call result
func (m *Metrics) StoreOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case models.IsValidation(err), models.IsNotFound(err), models.IsDuplicateName(err):
		result = "rejected"
	case models.IsStorageUnavailable(err):
		result = "unavailable"
	default:
		result = "error"
	}
	m.storeOps.WithLabelValues(op, result).Inc()
}

// StorageReinitialized counts an automatic re-initialization
func (m *Metrics) StorageReinitialized() {
	if m == nil {
		return
	}
	m.reinits.Inc()
}

// SetSessions reports the number of live wizard sessions
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// SetCatalogSize reports the catalog size
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogLen.Set(float64(n))
}
