package config

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mockDB() (*sql.DB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}
	mock.ExpectClose()
	return db, nil
}

func TestDatabaseNotOpen(t *testing.T) {
	d := NewDatabase("postgres://unused", quietLogger())
	_, err := d.DB(context.Background())
	if !models.IsStorageUnavailable(err) {
		t.Fatalf("expected StorageUnavailableError, got %v", err)
	}
	if d.State() != StateClosed {
		t.Fatalf("state = %d", d.State())
	}
}

func TestDatabaseConcurrentOpenSharesOneAttempt(t *testing.T) {
	d := NewDatabase("postgres://unused", quietLogger())

	var calls int32
	release := make(chan struct{})
	d.open = func(ctx context.Context, _ string) (*sql.DB, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return mockDB()
	}

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- d.Open(context.Background())
		}()
	}

	// Wait until the first attempt is in flight before releasing it.
	for atomic.LoadInt32(&calls) == 0 {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one connection attempt, got %d", got)
	}
	if d.State() != StateReady {
		t.Fatalf("state = %d", d.State())
	}
	if _, err := d.DB(context.Background()); err != nil {
		t.Fatalf("DB: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if d.State() != StateClosed {
		t.Fatalf("state after close = %d", d.State())
	}
}

func TestDatabaseOpenFailureIsRetryable(t *testing.T) {
	d := NewDatabase("postgres://unused", quietLogger())

	attempts := 0
	d.open = func(ctx context.Context, _ string) (*sql.DB, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("connection refused")
		}
		return mockDB()
	}

	err := d.Open(context.Background())
	if !models.IsStorageUnavailable(err) {
		t.Fatalf("expected StorageUnavailableError, got %v", err)
	}
	if d.State() != StateClosed {
		t.Fatalf("state after failure = %d", d.State())
	}

	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d", attempts)
	}
	d.Close()
}

func TestDatabaseReinitialize(t *testing.T) {
	d := NewDatabase("postgres://unused", quietLogger())

	attempts := 0
	d.open = func(ctx context.Context, _ string) (*sql.DB, error) {
		attempts++
		return mockDB()
	}

	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	first, _ := d.DB(context.Background())

	if err := d.Reinitialize(context.Background()); err != nil {
		t.Fatalf("Reinitialize: %v", err)
	}
	second, err := d.DB(context.Background())
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh connection pool")
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d", attempts)
	}
	d.Close()
}
