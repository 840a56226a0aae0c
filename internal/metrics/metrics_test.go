package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDraw(models.ScenarioAll, models.DrawOutcomePicked, 3)
	m.StoreOp("insert", nil)
	m.StorageReinitialized()
	m.SetSessions(2)
	m.SetCatalogSize(30)
}

func TestStoreOpResults(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.StoreOp("insert", nil)
	m.StoreOp("insert", models.NewValidationError("name", "must not be empty"))
	m.StoreOp("insert", &models.StorageUnavailableError{Op: "insert"})
	m.StoreOp("insert", errors.New("boom"))

	for result, want := range map[string]float64{"ok": 1, "rejected": 1, "unavailable": 1, "error": 1} {
		if got := testutil.ToFloat64(m.storeOps.WithLabelValues("insert", result)); got != want {
			t.Errorf("%s = %v, want %v", result, got, want)
		}
	}
}

func TestObserveDraw(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDraw(models.ScenarioBudget, models.DrawOutcomePicked, 4)
	m.ObserveDraw(models.ScenarioBudget, models.DrawOutcomeEmpty, 0)
	m.ObserveDraw(models.ScenarioBudget, models.DrawOutcomeError, 0)

	if got := testutil.ToFloat64(m.draws.WithLabelValues("budget", "picked")); got != 1 {
		t.Errorf("picked = %v", got)
	}
	if got := testutil.CollectAndCount(m.draws); got != 3 {
		t.Errorf("series = %d", got)
	}
}
