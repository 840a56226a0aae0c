// Package wizard implements the four-step food selection flow: scenario,
// meal or snack, category, result.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/metrics"
	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/scenario"
)

// Step is a wizard state
type Step int

const (
	StepScenario Step = iota
	StepType
	StepCategory
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepScenario:
		return "scenario"
	case StepType:
		return "type"
	case StepCategory:
		return "category"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Valid reports whether s is one of the four steps
func (s Step) Valid() bool {
	return s >= StepScenario && s <= StepResult
}

var (
	// ErrInvalidTransition is returned for moves the transition table does not allow
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrNoPick is returned for result actions when there is no real winning pick
	ErrNoPick = errors.New("no food was picked")
)

// Catalog is the catalog lookup the draw needs
type Catalog interface {
	GetByCategory(ctx context.Context, category models.Category) ([]*models.Food, error)
}

// Preferences is the preference access the wizard needs
type Preferences interface {
	Snapshot() *models.PreferenceSnapshot
	HasCustomList(name string) bool
	ToggleFavorite(ctx context.Context, name string) (bool, error)
	AddToBlacklist(ctx context.Context, name string) error
}

// transition is one row of the forward transition table
type transition struct {
	from, to Step
	guard    func(w *Wizard) error
	action   func(ctx context.Context, w *Wizard)
}

var forward = []transition{
	{
		from: StepScenario, to: StepType,
		guard: func(w *Wizard) error {
			if w.state.Scenario == models.ScenarioCustom && w.state.CustomListName == "" {
				return fmt.Errorf("%w: choose a custom list first", ErrInvalidTransition)
			}
			return nil
		},
		action: func(_ context.Context, w *Wizard) {
			w.state.MealOrSnack = models.KindUnset
			w.state.Category = ""
			w.state.DrawnResult = nil
		},
	},
	{
		from: StepType, to: StepCategory,
		guard: func(w *Wizard) error {
			if w.state.MealOrSnack == models.KindUnset {
				return fmt.Errorf("%w: choose meal or snack first", ErrInvalidTransition)
			}
			return nil
		},
	},
	{
		from: StepCategory, to: StepResult,
		guard: func(w *Wizard) error {
			if w.state.Category == "" {
				return fmt.Errorf("%w: choose a category first", ErrInvalidTransition)
			}
			return nil
		},
		action: func(ctx context.Context, w *Wizard) {
			w.draw(ctx)
		},
	},
}

// Option configures a Wizard
type Option func(*Wizard)

// WithRand sets the random source used to shuffle draws. A *rand.Rand is
// not safe for concurrent use; outside tests leave it unset so every wizard
// seeds its own.
func WithRand(r *rand.Rand) Option {
	return func(w *Wizard) { w.rng = r }
}

// WithMetrics records draws on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Wizard) { w.metrics = m }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// Wizard is one user's selection flow. It is safe for concurrent use; calls
// are applied one at a time in arrival order.
type Wizard struct {
	catalog Catalog
	prefs   Preferences
	logger  *logrus.Logger
	metrics *metrics.Metrics
	rng     *rand.Rand
	now     func() time.Time

	mu       sync.Mutex
	step     Step
	state    models.SelectionState
	lastUsed time.Time
}

// New creates a wizard at the scenario step with default selections
func New(catalog Catalog, prefs Preferences, logger *logrus.Logger, opts ...Option) *Wizard {
	w := &Wizard{
		catalog: catalog,
		prefs:   prefs,
		logger:  logger,
		now:     time.Now,
		step:    StepScenario,
		state:   models.DefaultSelectionState(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	w.lastUsed = w.now()
	return w
}

// View is a consistent copy of the wizard position and selections
type View struct {
	Step  Step                  `json:"step"`
	State models.SelectionState `json:"state"`
}

func (w *Wizard) view() View {
	state := w.state
	if state.DrawnResult != nil {
		r := *state.DrawnResult
		r.Slots = append([]models.Slot(nil), r.Slots...)
		state.DrawnResult = &r
	}
	return View{Step: w.step, State: state}
}

func (w *Wizard) touch() {
	w.lastUsed = w.now()
}

// View returns the current step and selections
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view()
}

// LastUsed returns when the wizard last handled a call
func (w *Wizard) LastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

func (w *Wizard) requireStep(step Step) error {
	if w.step != step {
		return fmt.Errorf("%w: at step %s, need %s", ErrInvalidTransition, w.step, step)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Selections
// ----------------------------------------------------------------------------

// SelectScenario picks the filtering scenario. A custom scenario needs an
// existing list; other scenarios ignore listName.
func (w *Wizard) SelectScenario(s models.Scenario, listName string) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepScenario); err != nil {
		return w.view(), err
	}
	if _, err := scenario.ParseScenario(string(s)); err != nil {
		return w.view(), err
	}
	if s == models.ScenarioCustom {
		if listName == "" {
			return w.view(), models.NewValidationError("list_name", "a custom list is required")
		}
		if !w.prefs.HasCustomList(listName) {
			return w.view(), &models.NotFoundError{Kind: "custom list", Key: listName}
		}
	} else {
		listName = ""
	}
	w.state.Scenario = s
	w.state.CustomListName = listName
	return w.view(), nil
}

// SelectMealOrSnack picks the food kind. A category of the other kind is cleared.
func (w *Wizard) SelectMealOrSnack(kind models.Kind) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepType); err != nil {
		return w.view(), err
	}
	if kind == models.KindUnset || !kind.Valid() {
		return w.view(), models.NewValidationError("meal_or_snack", fmt.Sprintf("unknown kind %q", kind))
	}
	w.state.MealOrSnack = kind
	if w.state.Category != "" && w.state.Category.Kind() != kind {
		w.state.Category = ""
	}
	return w.view(), nil
}

// SelectCategory picks a category belonging to the chosen kind
func (w *Wizard) SelectCategory(category models.Category) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepCategory); err != nil {
		return w.view(), err
	}
	if !category.Valid() {
		return w.view(), models.NewValidationError("category", fmt.Sprintf("unknown category %q", category))
	}
	if category.Kind() != w.state.MealOrSnack {
		return w.view(), models.NewValidationError("category",
			fmt.Sprintf("%s is not a %s category", category, w.state.MealOrSnack))
	}
	w.state.Category = category
	return w.view(), nil
}

// ----------------------------------------------------------------------------
// Navigation
// ----------------------------------------------------------------------------

// Next advances one step when the step's guard allows it. Entering the
// result step runs a draw.
func (w *Wizard) Next(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.next(ctx); err != nil {
		return w.view(), err
	}
	return w.view(), nil
}

func (w *Wizard) next(ctx context.Context) error {
	for _, t := range forward {
		if t.from != w.step {
			continue
		}
		if t.guard != nil {
			if err := t.guard(w); err != nil {
				return err
			}
		}
		w.step = t.to
		if t.action != nil {
			t.action(ctx, w)
		}
		return nil
	}
	return fmt.Errorf("%w: no step after %s", ErrInvalidTransition, w.step)
}

// Back returns to the previous step, keeping every selection
func (w *Wizard) Back() (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if w.step == StepScenario {
		return w.view(), fmt.Errorf("%w: already at the first step", ErrInvalidTransition)
	}
	w.step--
	return w.view(), nil
}

// QuickBack jumps to the first step and resets every selection
func (w *Wizard) QuickBack() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	w.step = StepScenario
	w.state = models.DefaultSelectionState()
	return w.view()
}

// GoTo moves to step. Earlier steps are reached directly with selections
// kept; the next step goes through Next; the current step is a no-op.
func (w *Wizard) GoTo(ctx context.Context, step Step) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	switch {
	case !step.Valid():
		return w.view(), fmt.Errorf("%w: unknown step %d", ErrInvalidTransition, int(step))
	case step == w.step:
		return w.view(), nil
	case step < w.step:
		w.step = step
		return w.view(), nil
	case step == w.step+1:
		if err := w.next(ctx); err != nil {
			return w.view(), err
		}
		return w.view(), nil
	default:
		return w.view(), fmt.Errorf("%w: cannot skip from %s to %s", ErrInvalidTransition, w.step, step)
	}
}

// ----------------------------------------------------------------------------
// Result actions
// ----------------------------------------------------------------------------

// DrawAgain redraws with the current selections
func (w *Wizard) DrawAgain(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepResult); err != nil {
		return w.view(), err
	}
	w.draw(ctx)
	return w.view(), nil
}

func (w *Wizard) winner() (*models.Food, error) {
	if err := w.requireStep(StepResult); err != nil {
		return nil, err
	}
	food, ok := w.state.DrawnResult.Winner()
	if !ok {
		return nil, ErrNoPick
	}
	return food, nil
}

// ToggleFavorite flips the favorite mark of the winning pick and reports
// the new state
func (w *Wizard) ToggleFavorite(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	food, err := w.winner()
	if err != nil {
		return false, err
	}
	return w.prefs.ToggleFavorite(ctx, food.Name)
}

// Exclude blacklists the winning pick and draws again
func (w *Wizard) Exclude(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	food, err := w.winner()
	if err != nil {
		return w.view(), err
	}
	if err := w.prefs.AddToBlacklist(ctx, food.Name); err != nil {
		return w.view(), fmt.Errorf("failed to exclude %q: %w", food.Name, err)
	}
	w.draw(ctx)
	return w.view(), nil
}

// ----------------------------------------------------------------------------
// Draw
// ----------------------------------------------------------------------------

func (w *Wizard) draw(ctx context.Context) {
	result := &models.DrawResult{
		ID:      uuid.New(),
		DrawnAt: w.now(),
		Slots:   placeholders(),
	}
	w.state.DrawnResult = result

	foods, err := w.catalog.GetByCategory(ctx, w.state.Category)
	if err != nil {
		result.Outcome = models.DrawOutcomeError
		result.Error = err.Error()
		w.metrics.ObserveDraw(w.state.Scenario, result.Outcome, 0)
		w.logger.WithFields(logrus.Fields{
			"category": w.state.Category,
			"error":    err,
		}).Error("Failed to load foods for draw")
		return
	}

	eligible := scenario.Filter(foods, w.state.Scenario, w.state.CustomListName, w.prefs.Snapshot())
	result.EligibleCount = len(eligible)
	if len(eligible) == 0 {
		result.Outcome = models.DrawOutcomeEmpty
		w.metrics.ObserveDraw(w.state.Scenario, result.Outcome, 0)
		return
	}

	shuffled := append([]*models.Food(nil), eligible...)
	w.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for i := 0; i < models.DrawSlots && i < len(shuffled); i++ {
		result.Slots[i] = models.Slot{Food: shuffled[i].Clone()}
	}
	result.Outcome = models.DrawOutcomePicked
	w.metrics.ObserveDraw(w.state.Scenario, result.Outcome, len(eligible))

	w.logger.WithFields(logrus.Fields{
		"draw_id":  result.ID,
		"scenario": w.state.Scenario,
		"category": w.state.Category,
		"eligible": len(eligible),
		"winner":   result.Slots[0].Food.Name,
	}).Debug("Draw completed")
}

func placeholders() []models.Slot {
	slots := make([]models.Slot, models.DrawSlots)
	for i := range slots {
		slots[i] = models.Slot{Placeholder: true}
	}
	return slots
}
