package config

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/migrations"
)

// Connection lifecycle states
const (
	StateClosed int32 = iota
	StateOpening
	StateReady
)

// opener connects to the database and verifies the connection
type opener func(ctx context.Context, databaseURL string) (*sql.DB, error)

// Database is the process-wide connection. It starts closed; Open must succeed
// before repositories can use it.
type Database struct {
	url    string
	logger *logrus.Logger
	open   opener

	state *atomic.Int32
	group singleflight.Group

	mu sync.RWMutex
	db *sql.DB
}

// NewDatabase creates a closed database handle for the given URL
func NewDatabase(databaseURL string, logger *logrus.Logger) *Database {
	return &Database{
		url:    databaseURL,
		logger: logger,
		open:   openPostgres,
		state:  atomic.NewInt32(StateClosed),
	}
}

func openPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open connects to the database. Concurrent callers share one attempt.
func (d *Database) Open(ctx context.Context) error {
	if d.state.Load() == StateReady {
		return nil
	}
	_, err, shared := d.group.Do("open", func() (interface{}, error) {
		return nil, d.connect(ctx)
	})
	if shared {
		d.logger.Debug("Joined in-flight database initialization")
	}
	return err
}

func (d *Database) connect(ctx context.Context) error {
	if d.state.Load() == StateReady {
		return nil
	}
	d.state.Store(StateOpening)

	db, err := d.open(ctx, d.url)
	if err != nil {
		d.state.Store(StateClosed)
		return &models.StorageUnavailableError{Op: "open", Err: err}
	}

	d.mu.Lock()
	d.db = db
	d.mu.Unlock()
	d.state.Store(StateReady)

	d.logger.Info("Database connection established successfully")
	return nil
}

// Reinitialize drops the current connection and opens a new one
func (d *Database) Reinitialize(ctx context.Context) error {
	_, err, _ := d.group.Do("reinitialize", func() (interface{}, error) {
		d.logger.Warn("Re-initializing database connection")
		if err := d.Close(); err != nil {
			d.logger.WithError(err).Warn("Failed to close stale database connection")
		}
		return nil, d.Open(ctx)
	})
	return err
}

// DB returns the ready connection pool
func (d *Database) DB(ctx context.Context) (*sql.DB, error) {
	if d.state.Load() != StateReady {
		return nil, &models.StorageUnavailableError{Op: "connect", Err: fmt.Errorf("database is not open")}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.db == nil {
		return nil, &models.StorageUnavailableError{Op: "connect", Err: fmt.Errorf("database is not open")}
	}
	return d.db, nil
}

// State returns the current lifecycle state
func (d *Database) State() int32 {
	return d.state.Load()
}

// Migrate runs the embedded database migrations
func (d *Database) Migrate(ctx context.Context) error {
	db, err := d.DB(ctx)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	d.logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Database migrations completed successfully")
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	d.mu.Lock()
	db := d.db
	d.db = nil
	d.mu.Unlock()
	d.state.Store(StateClosed)

	if db != nil {
		return db.Close()
	}
	return nil
}
