package models

import (
	"encoding/json"
	"sort"
)

// Default scenario thresholds
const (
	DefaultCalorieLimit     = 500
	DefaultPriceLimit       = 100
	DefaultTimeLimitMinutes = 15
)

// StringSet is a set of food names. It is persisted as a sorted JSON array.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given names
func NewStringSet(names ...string) StringSet {
	s := make(StringSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports membership
func (s StringSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewStringSet(names...)
	return nil
}

// Settings holds the thresholds used by the healthy, budget and quick scenarios
type Settings struct {
	CalorieLimit     int `json:"calorie_limit"`
	PriceLimit       int `json:"price_limit"`
	TimeLimitMinutes int `json:"time_limit_minutes"`
}

// DefaultSettings returns the thresholds used until the user changes them
func DefaultSettings() Settings {
	return Settings{
		CalorieLimit:     DefaultCalorieLimit,
		PriceLimit:       DefaultPriceLimit,
		TimeLimitMinutes: DefaultTimeLimitMinutes,
	}
}

// Normalize replaces every non-positive threshold with its default
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if s.CalorieLimit <= 0 {
		s.CalorieLimit = d.CalorieLimit
	}
	if s.PriceLimit <= 0 {
		s.PriceLimit = d.PriceLimit
	}
	if s.TimeLimitMinutes <= 0 {
		s.TimeLimitMinutes = d.TimeLimitMinutes
	}
	return s
}

// SettingsUpdate is a partial settings change; nil fields are left untouched
type SettingsUpdate struct {
	CalorieLimit     *int `json:"calorie_limit,omitempty"`
	PriceLimit       *int `json:"price_limit,omitempty"`
	TimeLimitMinutes *int `json:"time_limit_minutes,omitempty"`
}

// PreferenceSnapshot is a read-only copy of the user's preferences
type PreferenceSnapshot struct {
	Favorites   StringSet           `json:"favorites"`
	Blacklist   StringSet           `json:"blacklist"`
	CustomLists map[string][]string `json:"custom_lists"`
	Settings    Settings            `json:"settings"`
}

// NewPreferenceSnapshot returns empty preferences with default settings
func NewPreferenceSnapshot() *PreferenceSnapshot {
	return &PreferenceSnapshot{
		Favorites:   StringSet{},
		Blacklist:   StringSet{},
		CustomLists: map[string][]string{},
		Settings:    DefaultSettings(),
	}
}

// Clone returns a deep copy
func (p *PreferenceSnapshot) Clone() *PreferenceSnapshot {
	out := &PreferenceSnapshot{
		Favorites:   p.Favorites.Clone(),
		Blacklist:   p.Blacklist.Clone(),
		CustomLists: make(map[string][]string, len(p.CustomLists)),
		Settings:    p.Settings,
	}
	for name, items := range p.CustomLists {
		out.CustomLists[name] = append([]string(nil), items...)
	}
	return out
}

// PreferenceStats summarizes the preference facets
type PreferenceStats struct {
	FavoritesCount   int      `json:"favorites_count"`
	BlacklistCount   int      `json:"blacklist_count"`
	CustomListsCount int      `json:"custom_lists_count"`
	Settings         Settings `json:"settings"`
}
