package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/metrics"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

// Service is the central business logic layer that holds the catalog and
// preference stores.
type Service struct {
	logger      *logrus.Logger
	Catalog     *Catalog
	Preferences *Preferences
}

// Options tunes the storage retry behaviour
type Options struct {
	// Reinitializer is asked to re-open storage once before a failed call is retried
	Reinitializer Reinitializer
	Metrics       *metrics.Metrics
	// RetryDelay is the pause between the failed call and its retry
	RetryDelay time.Duration
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, foods repository.FoodRepository, prefs repository.PreferenceRepository, opts Options) *Service {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	guard := &storageGuard{
		reinit:  opts.Reinitializer,
		logger:  logger,
		metrics: opts.Metrics,
		delay:   opts.RetryDelay,
	}
	return &Service{
		logger:      logger,
		Catalog:     newCatalog(foods, guard, logger, opts.Metrics),
		Preferences: newPreferences(prefs, guard, logger),
	}
}
