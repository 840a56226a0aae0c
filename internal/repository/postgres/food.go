package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

const foodColumns = `id, name, category, calories, protein, carbs, fat, price, prep_time_minutes, created_at, updated_at`

const insertFoodQuery = `
		INSERT INTO foods (name, category, calories, protein, carbs, fat, price, prep_time_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

type foodRepository struct {
	conn Conn
}

// NewFoodRepository creates a new food catalog repository
func NewFoodRepository(conn Conn) repository.FoodRepository {
	return &foodRepository{conn: conn}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*models.Food, error) {
	food := &models.Food{}
	err := row.Scan(
		&food.ID,
		&food.Name,
		&food.Category,
		&food.Calories,
		&food.Protein,
		&food.Carbs,
		&food.Fat,
		&food.Price,
		&food.PrepTimeMinutes,
		&food.CreatedAt,
		&food.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return food, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertFood(ctx context.Context, q queryRower, food *models.Food) error {
	now := time.Now()
	food.CreatedAt = now
	food.UpdatedAt = now

	return q.QueryRowContext(ctx, insertFoodQuery,
		food.Name,
		food.Category,
		food.Calories,
		food.Protein,
		food.Carbs,
		food.Fat,
		food.Price,
		food.PrepTimeMinutes,
		food.CreatedAt,
		food.UpdatedAt,
	).Scan(&food.ID, &food.CreatedAt, &food.UpdatedAt)
}

func (r *foodRepository) Create(ctx context.Context, food *models.Food) (*models.Food, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	if err := insertFood(ctx, db, food); err != nil {
		return nil, wrapErr("create food", err)
	}
	return food, nil
}

func (r *foodRepository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1`
	food, err := scanFood(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapErr("get food", err)
	}
	return food, nil
}

func (r *foodRepository) GetAll(ctx context.Context) ([]*models.Food, error) {
	return r.list(ctx, "list foods", `SELECT `+foodColumns+` FROM foods ORDER BY id ASC`)
}

func (r *foodRepository) GetByCategory(ctx context.Context, category models.Category) ([]*models.Food, error) {
	return r.list(ctx, "list foods by category",
		`SELECT `+foodColumns+` FROM foods WHERE category = $1 ORDER BY id ASC`, category)
}

func (r *foodRepository) GetByName(ctx context.Context, name string) (*models.Food, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + foodColumns + ` FROM foods WHERE name = $1 ORDER BY id ASC LIMIT 1`
	food, err := scanFood(db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapErr("get food by name", err)
	}
	return food, nil
}

func (r *foodRepository) list(ctx context.Context, op, query string, args ...any) ([]*models.Food, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	foods := []*models.Food{}
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, wrapErr("scan food", err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return foods, nil
}

func (r *foodRepository) Update(ctx context.Context, food *models.Food) (*models.Food, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE foods
		SET name = $2, category = $3, calories = $4, protein = $5, carbs = $6, fat = $7,
			price = $8, prep_time_minutes = $9, updated_at = $10
		WHERE id = $1
		RETURNING created_at, updated_at`

	food.UpdatedAt = time.Now()
	err = db.QueryRowContext(ctx, query,
		food.ID,
		food.Name,
		food.Category,
		food.Calories,
		food.Protein,
		food.Carbs,
		food.Fat,
		food.Price,
		food.PrepTimeMinutes,
		food.UpdatedAt,
	).Scan(&food.CreatedAt, &food.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Kind: "food", Key: strconv.FormatInt(food.ID, 10)}
		}
		return nil, wrapErr("update food", err)
	}
	return food, nil
}

func (r *foodRepository) Delete(ctx context.Context, id int64) (bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr("delete food", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, wrapErr("get rows affected", err)
	}
	return n > 0, nil
}

func (r *foodRepository) Count(ctx context.Context) (int, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&n); err != nil {
		return 0, wrapErr("count foods", err)
	}
	return n, nil
}

// ReplaceAll commits the clear on its own, then seeds inside a transaction so
// a failed seed leaves an empty catalog rather than a partial one.
func (r *foodRepository) ReplaceAll(ctx context.Context, foods []*models.Food) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM foods`); err != nil {
		return wrapErr("clear foods", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin seed transaction", err)
	}
	defer tx.Rollback()

	for _, food := range foods {
		if err := insertFood(ctx, tx, food); err != nil {
			return wrapErr("seed food "+strconv.Quote(food.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("commit seed transaction", err)
	}
	return nil
}
