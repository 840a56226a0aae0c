package scenario

import (
	"testing"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

func catalog() []*models.Food {
	return []*models.Food{
		{ID: 1, Name: "Salad", Category: models.CategoryMealOther, Calories: 200, Price: 120, PrepTimeMinutes: 5},
		{ID: 2, Name: "Burger", Category: models.CategoryMealOther, Calories: 800, Price: 90, PrepTimeMinutes: 10},
		{ID: 3, Name: "Steak", Category: models.CategoryMealOther, Calories: 700, Price: 400, PrepTimeMinutes: 40},
		{ID: 4, Name: "Soup", Category: models.CategoryMealOther, Calories: 300, Price: 60, PrepTimeMinutes: 15},
	}
}

func names(foods []*models.Food) map[string]bool {
	out := map[string]bool{}
	for _, f := range foods {
		out[f.Name] = true
	}
	return out
}

func TestBlacklistVetoesEveryScenario(t *testing.T) {
	prefs := models.NewPreferenceSnapshot()
	prefs.Blacklist = models.NewStringSet("Salad")
	prefs.Favorites = models.NewStringSet("Salad", "Soup")
	prefs.CustomLists["lunch"] = []string{"Salad", "Burger"}

	for _, s := range models.Scenarios() {
		t.Run(string(s), func(t *testing.T) {
			got := Filter(catalog(), s, "lunch", prefs)
			if names(got)["Salad"] {
				t.Fatalf("blacklisted food survived %s", s)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	base := func() *models.PreferenceSnapshot { return models.NewPreferenceSnapshot() }

	tests := []struct {
		name     string
		scenario models.Scenario
		list     string
		prefs    func() *models.PreferenceSnapshot
		want     []string
	}{
		{
			name:     "all keeps everything",
			scenario: models.ScenarioAll,
			prefs:    base,
			want:     []string{"Salad", "Burger", "Steak", "Soup"},
		},
		{
			name:     "favorites intersects",
			scenario: models.ScenarioFavorites,
			prefs: func() *models.PreferenceSnapshot {
				p := base()
				p.Favorites = models.NewStringSet("Soup", "Pizza")
				return p
			},
			want: []string{"Soup"},
		},
		{
			name:     "empty favorites falls back to everything",
			scenario: models.ScenarioFavorites,
			prefs:    base,
			want:     []string{"Salad", "Burger", "Steak", "Soup"},
		},
		{
			name:     "healthy uses calorie limit",
			scenario: models.ScenarioHealthy,
			prefs:    base,
			want:     []string{"Salad", "Soup"},
		},
		{
			name:     "budget uses price limit",
			scenario: models.ScenarioBudget,
			prefs:    base,
			want:     []string{"Burger", "Soup"},
		},
		{
			name:     "quick uses time limit",
			scenario: models.ScenarioQuick,
			prefs:    base,
			want:     []string{"Salad", "Burger", "Soup"},
		},
		{
			name:     "custom thresholds apply",
			scenario: models.ScenarioBudget,
			prefs: func() *models.PreferenceSnapshot {
				p := base()
				p.Settings.PriceLimit = 150
				return p
			},
			want: []string{"Salad", "Burger", "Soup"},
		},
		{
			name:     "custom list",
			scenario: models.ScenarioCustom,
			list:     "lunch",
			prefs: func() *models.PreferenceSnapshot {
				p := base()
				p.CustomLists["lunch"] = []string{"Steak", "Steak", "Pizza"}
				return p
			},
			want: []string{"Steak"},
		},
		{
			name:     "unknown custom list is empty",
			scenario: models.ScenarioCustom,
			list:     "dinner",
			prefs:    base,
			want:     nil,
		},
		{
			name:     "custom without list is empty",
			scenario: models.ScenarioCustom,
			prefs:    base,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(catalog(), tt.scenario, tt.list, tt.prefs())
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, names(got))
			}
			have := names(got)
			for _, n := range tt.want {
				if !have[n] {
					t.Errorf("expected %q in result %v", n, have)
				}
			}
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	foods := catalog()
	prefs := models.NewPreferenceSnapshot()
	prefs.Blacklist = models.NewStringSet("Burger")

	_ = Filter(foods, models.ScenarioAll, "", prefs)
	if len(foods) != 4 || foods[1].Name != "Burger" {
		t.Fatal("input slice modified")
	}
}

func TestFilterEmptyInput(t *testing.T) {
	got := Filter(nil, models.ScenarioAll, "", nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestParseScenario(t *testing.T) {
	for _, s := range models.Scenarios() {
		got, err := ParseScenario(" " + string(s) + " ")
		if err != nil || got != s {
			t.Errorf("ParseScenario(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseScenario("spicy"); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(models.ScenarioCustom, "lunch"); got != "📝 Custom list: lunch" {
		t.Errorf("unexpected custom name %q", got)
	}
	if got := DisplayName(models.ScenarioCustom, ""); got != "📝 Custom list: not selected" {
		t.Errorf("unexpected unselected name %q", got)
	}
	if got := DisplayName("spicy", ""); got != "❓ Unknown" {
		t.Errorf("unexpected unknown name %q", got)
	}
}
