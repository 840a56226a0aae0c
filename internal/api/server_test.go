package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Kerhoff/FoodPickerBot/internal/config"
	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository/memory"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
	"github.com/Kerhoff/FoodPickerBot/pkg/logger"
)

type fixedState int32

func (s fixedState) State() int32 { return int32(s) }

type fixture struct {
	t       *testing.T
	handler http.Handler
	svc     *service.Service
	foods   *memory.FoodRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := logger.Discard()

	foods := memory.NewFoodRepository()
	svc := service.New(l, foods, memory.NewPreferenceRepository(), service.Options{RetryDelay: time.Millisecond})
	sessions := wizard.NewSessions(svc.Catalog, svc.Preferences, l, nil, time.Hour)
	srv := NewServer(svc, sessions, fixedState(config.StateReady), l)
	return &fixture{t: t, handler: srv.Handler(), svc: svc, foods: foods}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			f.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestFoodCRUD(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/foods", map[string]any{"name": "Curry", "category": "meal-rice", "price": 110})
	expectStatus(t, rec, http.StatusCreated)
	id := int64(decode[map[string]float64](t, rec)["id"])

	rec = f.do(http.MethodGet, "/api/foods/"+itoa(id), nil)
	expectStatus(t, rec, http.StatusOK)
	food := decode[models.Food](t, rec)
	if food.Name != "Curry" || food.PrepTimeMinutes != models.DefaultPrepTimeMinutes {
		t.Fatalf("unexpected food %+v", food)
	}

	rec = f.do(http.MethodPut, "/api/foods/"+itoa(id), map[string]any{"name": "Katsu Curry", "category": "meal-rice"})
	expectStatus(t, rec, http.StatusNoContent)

	rec = f.do(http.MethodGet, "/api/foods?category=meal-rice", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decode[[]models.Food](t, rec)
	if len(list) != 1 || list[0].Name != "Katsu Curry" {
		t.Fatalf("unexpected list %+v", list)
	}

	expectStatus(t, f.do(http.MethodDelete, "/api/foods/"+itoa(id), nil), http.StatusNoContent)
	expectStatus(t, f.do(http.MethodDelete, "/api/foods/"+itoa(id), nil), http.StatusNoContent)
	expectStatus(t, f.do(http.MethodGet, "/api/foods/"+itoa(id), nil), http.StatusNotFound)
}

func TestErrorStatuses(t *testing.T) {
	f := newFixture(t)

	expectStatus(t, f.do(http.MethodPost, "/api/foods", map[string]any{"name": " ", "category": "meal-rice"}), http.StatusBadRequest)
	expectStatus(t, f.do(http.MethodGet, "/api/foods?category=dessert", nil), http.StatusBadRequest)
	expectStatus(t, f.do(http.MethodGet, "/api/foods/abc", nil), http.StatusBadRequest)
	expectStatus(t, f.do(http.MethodPut, "/api/foods/99", map[string]any{"name": "X", "category": "meal-rice"}), http.StatusNotFound)

	expectStatus(t, f.do(http.MethodPost, "/api/preferences/lists", map[string]any{"name": "Lunch"}), http.StatusCreated)
	expectStatus(t, f.do(http.MethodPost, "/api/preferences/lists", map[string]any{"name": "Lunch"}), http.StatusConflict)

	f.foods.FailNext("list", &models.StorageUnavailableError{Op: "query", Err: io.ErrUnexpectedEOF})
	f.foods.FailNext("list", &models.StorageUnavailableError{Op: "query", Err: io.ErrUnexpectedEOF})
	expectStatus(t, f.do(http.MethodGet, "/api/foods", nil), http.StatusServiceUnavailable)
}

func TestResetFoodsNeedsConfirm(t *testing.T) {
	f := newFixture(t)

	expectStatus(t, f.do(http.MethodPost, "/api/foods/reset", nil), http.StatusPreconditionRequired)
	rec := f.do(http.MethodPost, "/api/foods/reset?confirm=true", nil)
	expectStatus(t, rec, http.StatusOK)
	if n := decode[map[string]int](t, rec)["foods"]; n != 30 {
		t.Fatalf("expected 30 foods, got %d", n)
	}

	rec = f.do(http.MethodGet, "/api/foods/grouped", nil)
	expectStatus(t, rec, http.StatusOK)
	if groups := decode[[]service.CategoryGroup](t, rec); len(groups) != 6 {
		t.Fatalf("expected 6 groups, got %d", len(groups))
	}
}

func TestPreferenceEndpoints(t *testing.T) {
	f := newFixture(t)

	expectStatus(t, f.do(http.MethodPut, "/api/preferences/favorites/Sushi", nil), http.StatusOK)
	expectStatus(t, f.do(http.MethodPut, "/api/preferences/blacklist/Coffee", nil), http.StatusOK)

	rec := f.do(http.MethodPost, "/api/preferences/favorites/Sushi/toggle", nil)
	expectStatus(t, rec, http.StatusOK)
	if decode[map[string]bool](t, rec)["favorite"] {
		t.Fatal("expected toggle to remove the favorite")
	}

	rec = f.do(http.MethodPatch, "/api/preferences/settings", map[string]int{"price_limit": 80, "calorie_limit": -5})
	expectStatus(t, rec, http.StatusOK)
	settings := decode[models.Settings](t, rec)
	if settings.PriceLimit != 80 || settings.CalorieLimit != models.DefaultCalorieLimit {
		t.Fatalf("unexpected settings %+v", settings)
	}

	rec = f.do(http.MethodGet, "/api/preferences/stats", nil)
	stats := decode[models.PreferenceStats](t, rec)
	if stats.BlacklistCount != 1 || stats.FavoritesCount != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	expectStatus(t, f.do(http.MethodPost, "/api/preferences/reset", nil), http.StatusPreconditionRequired)
	expectStatus(t, f.do(http.MethodPost, "/api/preferences/reset?confirm=true", nil), http.StatusOK)
	if f.svc.Preferences.IsBlacklisted("Coffee") {
		t.Fatal("reset did not clear the blacklist")
	}
}

func TestSessionFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Catalog.Insert(ctx, models.Food{Name: "Cheap Rice", Category: models.CategoryMealRice, Price: 40}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Catalog.Insert(ctx, models.Food{Name: "Fancy Rice", Category: models.CategoryMealRice, Price: 200}); err != nil {
		t.Fatal(err)
	}

	rec := f.do(http.MethodPost, "/api/sessions", nil)
	expectStatus(t, rec, http.StatusCreated)
	session := decode[sessionResponse](t, rec)
	base := "/api/sessions/" + session.ID

	expectStatus(t, f.do(http.MethodPost, base+"/kind", map[string]string{"meal_or_snack": "meal"}), http.StatusConflict)
	expectStatus(t, f.do(http.MethodPost, base+"/scenario", map[string]string{"scenario": "budget"}), http.StatusOK)
	expectStatus(t, f.do(http.MethodPost, base+"/next", nil), http.StatusOK)
	expectStatus(t, f.do(http.MethodPost, base+"/kind", map[string]string{"meal_or_snack": "meal"}), http.StatusOK)
	expectStatus(t, f.do(http.MethodPost, base+"/next", nil), http.StatusOK)
	expectStatus(t, f.do(http.MethodPost, base+"/category", map[string]string{"category": "meal-rice"}), http.StatusOK)

	rec = f.do(http.MethodPost, base+"/next", nil)
	expectStatus(t, rec, http.StatusOK)
	session = decode[sessionResponse](t, rec)
	if session.StepName != "result" {
		t.Fatalf("expected result step, got %s", session.StepName)
	}
	r := session.State.DrawnResult
	if r == nil || r.Outcome != models.DrawOutcomePicked || r.Slots[0].Food.Name != "Cheap Rice" || !r.Slots[1].Placeholder {
		t.Fatalf("unexpected draw %+v", r)
	}

	rec = f.do(http.MethodPost, base+"/favorite", nil)
	expectStatus(t, rec, http.StatusOK)
	if !decode[sessionResponse](t, rec).Favorite {
		t.Fatal("expected winner to be a favorite")
	}

	rec = f.do(http.MethodPost, base+"/exclude", nil)
	expectStatus(t, rec, http.StatusOK)
	if decode[sessionResponse](t, rec).State.DrawnResult.Outcome != models.DrawOutcomeEmpty {
		t.Fatal("expected empty result after excluding the only eligible food")
	}
	expectStatus(t, f.do(http.MethodPost, base+"/exclude", nil), http.StatusConflict)

	rec = f.do(http.MethodPost, base+"/goto", map[string]int{"step": 1})
	expectStatus(t, rec, http.StatusOK)
	if decode[sessionResponse](t, rec).StepName != "type" {
		t.Fatal("expected type step after goto")
	}
	expectStatus(t, f.do(http.MethodPost, base+"/goto", map[string]int{"step": 3}), http.StatusConflict)

	rec = f.do(http.MethodPost, base+"/quick-back", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[sessionResponse](t, rec).State; got != models.DefaultSelectionState() {
		t.Fatalf("expected default state, got %+v", got)
	}

	expectStatus(t, f.do(http.MethodDelete, base, nil), http.StatusNoContent)
	expectStatus(t, f.do(http.MethodGet, base, nil), http.StatusNotFound)
	expectStatus(t, f.do(http.MethodGet, "/api/sessions/not-a-uuid", nil), http.StatusBadRequest)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	expectStatus(t, f.do(http.MethodGet, "/healthz", nil), http.StatusOK)

	l := logger.Discard()
	srv := NewServer(f.svc, wizard.NewSessions(f.svc.Catalog, f.svc.Preferences, l, nil, time.Hour), fixedState(config.StateClosed), l)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
