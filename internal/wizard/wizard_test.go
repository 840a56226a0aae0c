package wizard

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository/memory"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	svc   *service.Service
	foods *memory.FoodRepository
}

func newFixture(t *testing.T, foods ...models.Food) *fixture {
	t.Helper()
	repo := memory.NewFoodRepository()
	svc := service.New(testLogger(), repo, memory.NewPreferenceRepository(), service.Options{RetryDelay: time.Millisecond})
	for _, f := range foods {
		if _, err := svc.Catalog.Insert(context.Background(), f); err != nil {
			t.Fatalf("insert %q: %v", f.Name, err)
		}
	}
	return &fixture{svc: svc, foods: repo}
}

func (f *fixture) wizard(seed uint64) *Wizard {
	return New(f.svc.Catalog, f.svc.Preferences, testLogger(), WithRand(rand.New(rand.NewPCG(seed, seed+1))))
}

func rice(name string, price int) models.Food {
	return models.Food{Name: name, Category: models.CategoryMealRice, Price: price}
}

// advance walks a fresh wizard to the result step
func advance(t *testing.T, w *Wizard, s models.Scenario, list string, category models.Category) View {
	t.Helper()
	ctx := context.Background()
	if _, err := w.SelectScenario(s, list); err != nil {
		t.Fatalf("select scenario: %v", err)
	}
	if _, err := w.Next(ctx); err != nil {
		t.Fatalf("next to type: %v", err)
	}
	if _, err := w.SelectMealOrSnack(category.Kind()); err != nil {
		t.Fatalf("select kind: %v", err)
	}
	if _, err := w.Next(ctx); err != nil {
		t.Fatalf("next to category: %v", err)
	}
	if _, err := w.SelectCategory(category); err != nil {
		t.Fatalf("select category: %v", err)
	}
	v, err := w.Next(ctx)
	if err != nil {
		t.Fatalf("next to result: %v", err)
	}
	return v
}

func TestFreshWizardAdvancesWithDefaultScenario(t *testing.T) {
	w := newFixture(t).wizard(1)
	v, err := w.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v.Step != StepType {
		t.Fatalf("expected type step, got %s", v.Step)
	}
}

func TestCustomScenarioNeedsList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wizard(1)

	if _, err := w.SelectScenario(models.ScenarioCustom, ""); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := w.SelectScenario(models.ScenarioCustom, "lunch"); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	// force the state the guard protects against
	w.state.Scenario = models.ScenarioCustom
	if _, err := w.Next(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	if err := f.svc.Preferences.CreateCustomList(ctx, "lunch", []string{"Curry"}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.SelectScenario(models.ScenarioCustom, "lunch"); err != nil {
		t.Fatal(err)
	}
	v, err := w.Next(ctx)
	if err != nil || v.Step != StepType {
		t.Fatalf("expected type step, got %s, %v", v.Step, err)
	}
}

func TestForwardGuards(t *testing.T) {
	w := newFixture(t).wizard(1)
	ctx := context.Background()
	_, _ = w.Next(ctx)

	if _, err := w.Next(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected guard on kind, got %v", err)
	}
	_, _ = w.SelectMealOrSnack(models.KindSnack)
	_, _ = w.Next(ctx)

	if _, err := w.SelectCategory(models.CategoryMealRice); !models.IsValidation(err) {
		t.Fatalf("expected category of wrong kind to be rejected, got %v", err)
	}
	if _, err := w.Next(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected guard on category, got %v", err)
	}
	if _, err := w.SelectScenario(models.ScenarioAll, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected scenario selection off-step to fail, got %v", err)
	}
}

func TestBackPreservesSelections(t *testing.T) {
	f := newFixture(t, rice("Curry", 50))
	w := f.wizard(1)
	advance(t, w, models.ScenarioBudget, "", models.CategoryMealRice)

	for _, want := range []Step{StepCategory, StepType, StepScenario} {
		v, err := w.Back()
		if err != nil {
			t.Fatal(err)
		}
		if v.Step != want {
			t.Fatalf("expected %s, got %s", want, v.Step)
		}
		if v.State.Scenario != models.ScenarioBudget || v.State.MealOrSnack != models.KindMeal || v.State.Category != models.CategoryMealRice {
			t.Fatalf("selections lost going back: %+v", v.State)
		}
	}
	if _, err := w.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected error going back from first step, got %v", err)
	}
}

func TestAdvancingFromScenarioResetsDownstream(t *testing.T) {
	f := newFixture(t, rice("Curry", 50))
	w := f.wizard(1)
	advance(t, w, models.ScenarioAll, "", models.CategoryMealRice)

	v, err := w.GoTo(context.Background(), StepScenario)
	if err != nil || v.State.DrawnResult == nil {
		t.Fatalf("expected preserved draw on jump back, got %+v, %v", v.State, err)
	}
	v, err = w.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v.State.MealOrSnack != models.KindUnset || v.State.Category != "" || v.State.DrawnResult != nil {
		t.Fatalf("downstream state leaked: %+v", v.State)
	}
}

func TestQuickBackResetsFromEveryStep(t *testing.T) {
	f := newFixture(t, rice("Curry", 50))
	ctx := context.Background()

	for _, target := range []Step{StepScenario, StepType, StepCategory, StepResult} {
		t.Run(target.String(), func(t *testing.T) {
			w := f.wizard(1)
			advance(t, w, models.ScenarioQuick, "", models.CategoryMealRice)
			if _, err := w.GoTo(ctx, target); err != nil {
				t.Fatal(err)
			}
			v := w.QuickBack()
			if v.Step != StepScenario {
				t.Fatalf("expected scenario step, got %s", v.Step)
			}
			want := models.DefaultSelectionState()
			if v.State != want {
				t.Fatalf("expected %+v, got %+v", want, v.State)
			}
		})
	}
}

func TestGoTo(t *testing.T) {
	w := newFixture(t).wizard(1)
	ctx := context.Background()

	if _, err := w.GoTo(ctx, StepCategory); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected skip to fail, got %v", err)
	}
	if _, err := w.GoTo(ctx, Step(7)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected unknown step to fail, got %v", err)
	}
	v, err := w.GoTo(ctx, StepType)
	if err != nil || v.Step != StepType {
		t.Fatalf("expected forward step, got %s, %v", v.Step, err)
	}
	v, err = w.GoTo(ctx, StepType)
	if err != nil || v.Step != StepType {
		t.Fatalf("expected no-op, got %s, %v", v.Step, err)
	}
}

func TestBudgetDrawPadsWithPlaceholders(t *testing.T) {
	f := newFixture(t, rice("Cheap Rice", 40), rice("Fancy Rice", 200))
	w := f.wizard(1)

	v := advance(t, w, models.ScenarioBudget, "", models.CategoryMealRice)
	r := v.State.DrawnResult
	if r == nil || r.Outcome != models.DrawOutcomePicked {
		t.Fatalf("expected picked result, got %+v", r)
	}
	if r.EligibleCount != 1 {
		t.Fatalf("expected 1 eligible, got %d", r.EligibleCount)
	}
	if len(r.Slots) != models.DrawSlots {
		t.Fatalf("expected %d slots, got %d", models.DrawSlots, len(r.Slots))
	}
	if r.Slots[0].Placeholder || r.Slots[0].Food.Name != "Cheap Rice" {
		t.Fatalf("unexpected winner %+v", r.Slots[0])
	}
	for _, s := range r.Slots[1:] {
		if !s.Placeholder || s.Label() != models.PlaceholderLabel {
			t.Fatalf("expected placeholder, got %+v", s)
		}
	}
}

func TestEmptyDrawOffersNoActions(t *testing.T) {
	f := newFixture(t, rice("Fancy Rice", 200))
	w := f.wizard(1)
	ctx := context.Background()

	v := advance(t, w, models.ScenarioBudget, "", models.CategoryMealRice)
	if v.State.DrawnResult.Outcome != models.DrawOutcomeEmpty {
		t.Fatalf("expected empty outcome, got %s", v.State.DrawnResult.Outcome)
	}
	if _, err := w.ToggleFavorite(ctx); !errors.Is(err, ErrNoPick) {
		t.Fatalf("expected no pick, got %v", err)
	}
	if _, err := w.Exclude(ctx); !errors.Is(err, ErrNoPick) {
		t.Fatalf("expected no pick, got %v", err)
	}
}

func TestResultActionsOutsideResultStep(t *testing.T) {
	w := newFixture(t).wizard(1)
	ctx := context.Background()
	if _, err := w.DrawAgain(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := w.ToggleFavorite(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFailedDrawStaysInResult(t *testing.T) {
	f := newFixture(t, rice("Curry", 50))
	w := f.wizard(1)
	boom := errors.New("disk on fire")
	f.foods.FailNext("list_by_category", boom)

	v := advance(t, w, models.ScenarioAll, "", models.CategoryMealRice)
	if v.Step != StepResult {
		t.Fatalf("expected result step, got %s", v.Step)
	}
	r := v.State.DrawnResult
	if r.Outcome != models.DrawOutcomeError || !strings.Contains(r.Error, "disk on fire") {
		t.Fatalf("expected error outcome, got %+v", r)
	}

	v, err := w.DrawAgain(context.Background())
	if err != nil || v.State.DrawnResult.Outcome != models.DrawOutcomePicked {
		t.Fatalf("expected recovery on redraw, got %+v, %v", v.State.DrawnResult, err)
	}
}

func TestDrawAgainKeepsSelections(t *testing.T) {
	f := newFixture(t, rice("A", 10), rice("B", 10), rice("C", 10), rice("D", 10))
	w := f.wizard(3)
	first := advance(t, w, models.ScenarioAll, "", models.CategoryMealRice)

	v, err := w.DrawAgain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v.State.DrawnResult.ID == first.State.DrawnResult.ID {
		t.Fatal("expected a new draw id")
	}
	if v.State.Category != models.CategoryMealRice || v.State.Scenario != models.ScenarioAll {
		t.Fatalf("selections changed: %+v", v.State)
	}
}

func TestToggleFavoriteOnWinner(t *testing.T) {
	f := newFixture(t, rice("Curry", 50))
	w := f.wizard(1)
	ctx := context.Background()
	advance(t, w, models.ScenarioAll, "", models.CategoryMealRice)

	now, err := w.ToggleFavorite(ctx)
	if err != nil || !now {
		t.Fatalf("expected favorite on, got %v, %v", now, err)
	}
	if !f.svc.Preferences.IsFavorite("Curry") {
		t.Fatal("favorite not stored")
	}
	now, err = w.ToggleFavorite(ctx)
	if err != nil || now {
		t.Fatalf("expected favorite off, got %v, %v", now, err)
	}
}

func TestExcludeThenDrawNeverReturnsName(t *testing.T) {
	f := newFixture(t, rice("A", 10), rice("B", 10), rice("C", 10), rice("D", 10))
	w := f.wizard(7)
	ctx := context.Background()

	v := advance(t, w, models.ScenarioAll, "", models.CategoryMealRice)
	excluded := v.State.DrawnResult.Slots[0].Food.Name

	v, err := w.Exclude(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !f.svc.Preferences.IsBlacklisted(excluded) {
		t.Fatalf("%q not blacklisted", excluded)
	}
	if v.State.DrawnResult.EligibleCount != 3 {
		t.Fatalf("expected 3 eligible after exclude, got %d", v.State.DrawnResult.EligibleCount)
	}
	for i := 0; i < 200; i++ {
		v, err = w.DrawAgain(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if v.State.DrawnResult.Contains(excluded) {
			t.Fatalf("excluded %q drawn again", excluded)
		}
	}
}

func TestDrawIsUniform(t *testing.T) {
	f := newFixture(t, rice("A", 10), rice("B", 10), rice("C", 10), rice("D", 10))
	w := f.wizard(42)
	ctx := context.Background()
	advance(t, w, models.ScenarioAll, "", models.CategoryMealRice)

	const trials = 24000
	subsets := map[string]int{}
	winners := map[string]int{}
	for i := 0; i < trials; i++ {
		v, err := w.DrawAgain(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var picked []string
		for _, s := range v.State.DrawnResult.Slots {
			picked = append(picked, s.Food.Name)
		}
		winners[picked[0]]++
		sort.Strings(picked)
		subsets[strings.Join(picked, "")]++
	}

	check := func(kind string, counts map[string]int, buckets int) {
		if len(counts) != buckets {
			t.Fatalf("expected %d %s, got %v", buckets, kind, counts)
		}
		want := trials / buckets
		tolerance := want / 10
		for k, n := range counts {
			if n < want-tolerance || n > want+tolerance {
				t.Errorf("%s %q drawn %d times, want %d±%d", kind, k, n, want, tolerance)
			}
		}
	}
	check("subsets", subsets, 4)
	check("winners", winners, 4)
}
