package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/metrics"
	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

// Reinitializer re-opens the storage backend
type Reinitializer interface {
	Reinitialize(ctx context.Context) error
}

// storageGuard runs store calls and, when the backend is unavailable,
// re-initializes it once and retries the call once.
type storageGuard struct {
	reinit  Reinitializer
	logger  *logrus.Logger
	metrics *metrics.Metrics
	delay   time.Duration
}

func (g *storageGuard) do(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if !models.IsStorageUnavailable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		if attempt > 1 {
			return struct{}{}, err
		}

		g.logger.WithFields(logrus.Fields{
			"operation": op,
			"error":     err,
		}).Warn("Storage unavailable, re-initializing before retry")
		g.metrics.StorageReinitialized()
		if g.reinit != nil {
			if rerr := g.reinit.Reinitialize(ctx); rerr != nil {
				g.logger.WithError(rerr).Error("Storage re-initialization failed")
			}
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(g.delay)),
		backoff.WithMaxTries(2),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	g.metrics.StoreOp(op, err)
	return err
}
