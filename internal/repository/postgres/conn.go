package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

// Conn hands out the ready connection pool
type Conn interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// wrapErr turns connection-level failures into StorageUnavailableError and
// wraps everything else with the failed operation
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if models.IsStorageUnavailable(err) {
		return err
	}
	if isConnectionError(err) {
		return &models.StorageUnavailableError{Op: op, Err: err}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 is connection exception; 57P01-03 are shutdown / cannot connect now.
		if pqErr.Code.Class() == "08" {
			return true
		}
		switch pqErr.Code {
		case "57P01", "57P02", "57P03":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
