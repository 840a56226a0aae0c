package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

// Preferences holds the user's favorites, blacklist, custom lists and
// settings. Every change persists its facet before the in-memory copy moves.
type Preferences struct {
	repo   repository.PreferenceRepository
	guard  *storageGuard
	logger *logrus.Logger

	mu   sync.Mutex
	snap *models.PreferenceSnapshot
}

func newPreferences(repo repository.PreferenceRepository, guard *storageGuard, logger *logrus.Logger) *Preferences {
	return &Preferences{
		repo:   repo,
		guard:  guard,
		logger: logger,
		snap:   models.NewPreferenceSnapshot(),
	}
}

func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.NewValidationError(field, "must not be empty")
	}
	return name, nil
}

// Load reads every facet from storage, replacing the in-memory state
func (p *Preferences) Load(ctx context.Context) error {
	var snap *models.PreferenceSnapshot
	err := p.guard.do(ctx, "load_preferences", func() error {
		var err error
		snap, err = p.repo.Load(ctx)
		return err
	})
	if err != nil {
		return err
	}
	snap.Settings = snap.Settings.Normalize()

	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"favorites":    len(snap.Favorites),
		"blacklist":    len(snap.Blacklist),
		"custom_lists": len(snap.CustomLists),
	}).Info("Preferences loaded")
	return nil
}

func (p *Preferences) saveFavorites(ctx context.Context, next models.StringSet) error {
	if err := p.guard.do(ctx, "save_favorites", func() error {
		return p.repo.SaveFavorites(ctx, next)
	}); err != nil {
		return err
	}
	p.snap.Favorites = next
	return nil
}

func (p *Preferences) saveBlacklist(ctx context.Context, next models.StringSet) error {
	if err := p.guard.do(ctx, "save_blacklist", func() error {
		return p.repo.SaveBlacklist(ctx, next)
	}); err != nil {
		return err
	}
	p.snap.Blacklist = next
	return nil
}

func (p *Preferences) saveCustomLists(ctx context.Context, next map[string][]string) error {
	if err := p.guard.do(ctx, "save_custom_lists", func() error {
		return p.repo.SaveCustomLists(ctx, next)
	}); err != nil {
		return err
	}
	p.snap.CustomLists = next
	return nil
}

func (p *Preferences) saveSettings(ctx context.Context, next models.Settings) error {
	if err := p.guard.do(ctx, "save_settings", func() error {
		return p.repo.SaveSettings(ctx, next)
	}); err != nil {
		return err
	}
	p.snap.Settings = next
	return nil
}

func (p *Preferences) cloneLists() map[string][]string {
	out := make(map[string][]string, len(p.snap.CustomLists))
	for name, items := range p.snap.CustomLists {
		out[name] = append([]string(nil), items...)
	}
	return out
}

// ----------------------------------------------------------------------------
// Favorites and blacklist
// ----------------------------------------------------------------------------

// AddFavorite marks a food name as favorite
func (p *Preferences) AddFavorite(ctx context.Context, name string) error {
	name, err := cleanName("name", name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.Favorites.Has(name) {
		return nil
	}
	next := p.snap.Favorites.Clone()
	next[name] = struct{}{}
	return p.saveFavorites(ctx, next)
}

// RemoveFavorite unmarks a food name
func (p *Preferences) RemoveFavorite(ctx context.Context, name string) error {
	name, err := cleanName("name", name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.snap.Favorites.Has(name) {
		return nil
	}
	next := p.snap.Favorites.Clone()
	delete(next, name)
	return p.saveFavorites(ctx, next)
}

// ToggleFavorite flips the favorite mark and reports the new state
func (p *Preferences) ToggleFavorite(ctx context.Context, name string) (bool, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.snap.Favorites.Clone()
	now := !next.Has(name)
	if now {
		next[name] = struct{}{}
	} else {
		delete(next, name)
	}
	if err := p.saveFavorites(ctx, next); err != nil {
		return !now, err
	}
	return now, nil
}

// IsFavorite reports whether name is a favorite
func (p *Preferences) IsFavorite(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Favorites.Has(strings.TrimSpace(name))
}

// AddToBlacklist excludes a food name from every draw
func (p *Preferences) AddToBlacklist(ctx context.Context, name string) error {
	name, err := cleanName("name", name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.Blacklist.Has(name) {
		return nil
	}
	next := p.snap.Blacklist.Clone()
	next[name] = struct{}{}
	if err := p.saveBlacklist(ctx, next); err != nil {
		return err
	}
	p.logger.WithField("name", name).Info("Food blacklisted")
	return nil
}

// RemoveFromBlacklist allows a food name again
func (p *Preferences) RemoveFromBlacklist(ctx context.Context, name string) error {
	name, err := cleanName("name", name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.snap.Blacklist.Has(name) {
		return nil
	}
	next := p.snap.Blacklist.Clone()
	delete(next, name)
	return p.saveBlacklist(ctx, next)
}

// IsBlacklisted reports whether name is excluded
func (p *Preferences) IsBlacklisted(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Blacklist.Has(strings.TrimSpace(name))
}

// ----------------------------------------------------------------------------
// Custom lists
// ----------------------------------------------------------------------------

// CreateCustomList adds a named list. Items are trimmed and blanks dropped;
// duplicates are kept.
func (p *Preferences) CreateCustomList(ctx context.Context, name string, items []string) error {
	name, err := cleanName("list_name", name)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.snap.CustomLists[name]; ok {
		return &models.DuplicateNameError{Name: name}
	}
	next := p.cloneLists()
	next[name] = kept
	if err := p.saveCustomLists(ctx, next); err != nil {
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"list":  name,
		"items": len(kept),
	}).Info("Custom list created")
	return nil
}

// AddToCustomList appends a food name to a list, creating the list when it
// does not exist
func (p *Preferences) AddToCustomList(ctx context.Context, list, food string) error {
	list, err := cleanName("list_name", list)
	if err != nil {
		return err
	}
	food, err = cleanName("name", food)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.snap.CustomLists[list] {
		if item == food {
			return nil
		}
	}
	next := p.cloneLists()
	next[list] = append(next[list], food)
	return p.saveCustomLists(ctx, next)
}

// RemoveFromCustomList removes every occurrence of food from a list
func (p *Preferences) RemoveFromCustomList(ctx context.Context, list, food string) error {
	list = strings.TrimSpace(list)
	food = strings.TrimSpace(food)

	p.mu.Lock()
	defer p.mu.Unlock()
	items, ok := p.snap.CustomLists[list]
	if !ok {
		return nil
	}
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != food {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	next := p.cloneLists()
	next[list] = kept
	return p.saveCustomLists(ctx, next)
}

// DeleteCustomList removes a list; unknown names are ignored
func (p *Preferences) DeleteCustomList(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.snap.CustomLists[name]; !ok {
		return nil
	}
	next := p.cloneLists()
	delete(next, name)
	return p.saveCustomLists(ctx, next)
}

// CustomListNames returns the list names in lexical order
func (p *Preferences) CustomListNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.snap.CustomLists))
	for name := range p.snap.CustomLists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCustomList reports whether a list exists
func (p *Preferences) HasCustomList(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.snap.CustomLists[name]
	return ok
}

// ----------------------------------------------------------------------------
// Settings
// ----------------------------------------------------------------------------

// UpdateSettings merges the given thresholds. Non-positive values are ignored.
func (p *Preferences) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.snap.Settings
	if v := update.CalorieLimit; v != nil && *v > 0 {
		next.CalorieLimit = *v
	}
	if v := update.PriceLimit; v != nil && *v > 0 {
		next.PriceLimit = *v
	}
	if v := update.TimeLimitMinutes; v != nil && *v > 0 {
		next.TimeLimitMinutes = *v
	}
	if next == p.snap.Settings {
		return next, nil
	}
	if err := p.saveSettings(ctx, next); err != nil {
		return p.snap.Settings, err
	}
	p.logger.WithFields(logrus.Fields{
		"calorie_limit":      next.CalorieLimit,
		"price_limit":        next.PriceLimit,
		"time_limit_minutes": next.TimeLimitMinutes,
	}).Info("Settings updated")
	return next, nil
}

// ResetSettings restores the default thresholds
func (p *Preferences) ResetSettings(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveSettings(ctx, models.DefaultSettings())
}

// Settings returns the current thresholds
func (p *Preferences) Settings() models.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Settings
}

// ----------------------------------------------------------------------------
// Snapshot and maintenance
// ----------------------------------------------------------------------------

// Snapshot returns a deep copy of the current preferences
func (p *Preferences) Snapshot() *models.PreferenceSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Clone()
}

// Stats summarizes the preferences
func (p *Preferences) Stats() models.PreferenceStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.PreferenceStats{
		FavoritesCount:   len(p.snap.Favorites),
		BlacklistCount:   len(p.snap.Blacklist),
		CustomListsCount: len(p.snap.CustomLists),
		Settings:         p.snap.Settings,
	}
}

// ResetAll clears favorites, blacklist and custom lists. Settings are kept.
// Facets written before a failure stay cleared.
func (p *Preferences) ResetAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.saveFavorites(ctx, models.StringSet{}); err != nil {
		return err
	}
	if err := p.saveBlacklist(ctx, models.StringSet{}); err != nil {
		return err
	}
	if err := p.saveCustomLists(ctx, map[string][]string{}); err != nil {
		return err
	}
	p.logger.Info("Preferences reset")
	return nil
}
