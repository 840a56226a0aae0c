// Package scenario narrows a catalog slice down to the foods eligible for a
// draw. Everything here is pure: no storage and no locking.
package scenario

import (
	"fmt"
	"strings"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

// ParseScenario validates a scenario name
func ParseScenario(raw string) (models.Scenario, error) {
	s := models.Scenario(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range models.Scenarios() {
		if s == known {
			return s, nil
		}
	}
	return "", models.NewValidationError("scenario", fmt.Sprintf("unknown scenario %q", raw))
}

// Filter returns the foods eligible under scenario. Blacklisted names are
// always removed first, so the blacklist wins over every other facet. The
// input slice is never modified.
func Filter(foods []*models.Food, s models.Scenario, customListName string, prefs *models.PreferenceSnapshot) []*models.Food {
	if prefs == nil {
		prefs = models.NewPreferenceSnapshot()
	}
	settings := prefs.Settings.Normalize()

	var keep func(*models.Food) bool
	switch s {
	case models.ScenarioFavorites:
		if len(prefs.Favorites) > 0 {
			keep = func(f *models.Food) bool { return prefs.Favorites.Has(f.Name) }
		}
	case models.ScenarioHealthy:
		keep = func(f *models.Food) bool { return f.Calories <= float64(settings.CalorieLimit) }
	case models.ScenarioBudget:
		keep = func(f *models.Food) bool { return f.Price <= settings.PriceLimit }
	case models.ScenarioQuick:
		keep = func(f *models.Food) bool { return f.PrepTimeMinutes <= settings.TimeLimitMinutes }
	case models.ScenarioCustom:
		items, ok := prefs.CustomLists[customListName]
		if customListName == "" || !ok {
			return []*models.Food{}
		}
		names := models.NewStringSet(items...)
		keep = func(f *models.Food) bool { return names.Has(f.Name) }
	}

	out := make([]*models.Food, 0, len(foods))
	for _, f := range foods {
		if f == nil || prefs.Blacklist.Has(f.Name) {
			continue
		}
		if keep != nil && !keep(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// DisplayName returns the human label of a scenario
func DisplayName(s models.Scenario, customListName string) string {
	switch s {
	case models.ScenarioAll:
		return "🎲 Anything goes"
	case models.ScenarioFavorites:
		return "❤️ Favorites"
	case models.ScenarioHealthy:
		return "🥗 Healthy"
	case models.ScenarioBudget:
		return "💰 Budget"
	case models.ScenarioQuick:
		return "⚡ Quick"
	case models.ScenarioCustom:
		if customListName == "" {
			return "📝 Custom list: not selected"
		}
		return "📝 Custom list: " + customListName
	default:
		return "❓ Unknown"
	}
}

// Describe explains the threshold a scenario applies, for menus
func Describe(s models.Scenario, settings models.Settings) string {
	settings = settings.Normalize()
	switch s {
	case models.ScenarioAll:
		return "Every food that is not blacklisted"
	case models.ScenarioFavorites:
		return "Only favorites, or everything when there are none"
	case models.ScenarioHealthy:
		return fmt.Sprintf("At most %d kcal", settings.CalorieLimit)
	case models.ScenarioBudget:
		return fmt.Sprintf("At most %d per serving", settings.PriceLimit)
	case models.ScenarioQuick:
		return fmt.Sprintf("Ready in %d minutes or less", settings.TimeLimitMinutes)
	case models.ScenarioCustom:
		return "Only foods from one of your lists"
	default:
		return ""
	}
}
