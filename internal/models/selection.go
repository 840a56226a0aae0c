package models

import (
	"time"

	"github.com/google/uuid"
)

// Scenario is a named filtering mode applied on top of the blacklist
type Scenario string

const (
	ScenarioAll       Scenario = "all"
	ScenarioFavorites Scenario = "favorites"
	ScenarioHealthy   Scenario = "healthy"
	ScenarioBudget    Scenario = "budget"
	ScenarioQuick     Scenario = "quick"
	ScenarioCustom    Scenario = "custom"
)

// Scenarios returns every scenario in menu order
func Scenarios() []Scenario {
	return []Scenario{ScenarioAll, ScenarioFavorites, ScenarioHealthy, ScenarioBudget, ScenarioQuick, ScenarioCustom}
}

// DrawOutcome tells a normal draw apart from the empty and failed terminal results
type DrawOutcome string

const (
	DrawOutcomePicked DrawOutcome = "picked"
	DrawOutcomeEmpty  DrawOutcome = "empty"
	DrawOutcomeError  DrawOutcome = "error"
)

// DrawSlots is the number of results shown for every draw
const DrawSlots = 3

// PlaceholderLabel is shown in slots that could not be filled
const PlaceholderLabel = "not enough options"

// Slot is one of the three display positions of a draw
type Slot struct {
	Food        *Food `json:"food,omitempty"`
	Placeholder bool  `json:"placeholder"`
}

// Label returns the food name or the placeholder text
func (s Slot) Label() string {
	if s.Placeholder || s.Food == nil {
		return PlaceholderLabel
	}
	return s.Food.Name
}

// DrawResult is the outcome of one draw
type DrawResult struct {
	ID            uuid.UUID   `json:"id"`
	Outcome       DrawOutcome `json:"outcome"`
	Slots         []Slot      `json:"slots"`
	EligibleCount int         `json:"eligible_count"`
	Error         string      `json:"error,omitempty"`
	DrawnAt       time.Time   `json:"drawn_at"`
}

// Winner returns the winning pick when the draw produced one
func (d *DrawResult) Winner() (*Food, bool) {
	if d == nil || d.Outcome != DrawOutcomePicked || len(d.Slots) == 0 {
		return nil, false
	}
	first := d.Slots[0]
	if first.Placeholder || first.Food == nil {
		return nil, false
	}
	return first.Food, true
}

// Contains reports whether a real slot holds a food with the given name
func (d *DrawResult) Contains(name string) bool {
	if d == nil {
		return false
	}
	for _, s := range d.Slots {
		if !s.Placeholder && s.Food != nil && s.Food.Name == name {
			return true
		}
	}
	return false
}

// SelectionState is the wizard-scoped choice made so far
type SelectionState struct {
	Scenario       Scenario    `json:"scenario"`
	CustomListName string      `json:"custom_list_name,omitempty"`
	MealOrSnack    Kind        `json:"meal_or_snack,omitempty"`
	Category       Category    `json:"category,omitempty"`
	DrawnResult    *DrawResult `json:"drawn_result,omitempty"`
}

// DefaultSelectionState returns the state a fresh wizard starts from
func DefaultSelectionState() SelectionState {
	return SelectionState{Scenario: ScenarioAll}
}
