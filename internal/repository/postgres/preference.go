package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

type preferenceRepository struct {
	conn   Conn
	logger *logrus.Logger
}

// NewPreferenceRepository creates a repository storing one row per preference facet
func NewPreferenceRepository(conn Conn, logger *logrus.Logger) repository.PreferenceRepository {
	return &preferenceRepository{conn: conn, logger: logger}
}

func (r *preferenceRepository) Load(ctx context.Context) (*models.PreferenceSnapshot, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT facet, value FROM preferences`)
	if err != nil {
		return nil, wrapErr("load preferences", err)
	}
	defer rows.Close()

	snap := models.NewPreferenceSnapshot()
	for rows.Next() {
		var facet string
		var raw []byte
		if err := rows.Scan(&facet, &raw); err != nil {
			return nil, wrapErr("scan preference", err)
		}
		// A corrupt facet falls back to its default instead of blocking startup.
		if err := decodeFacet(snap, facet, raw); err != nil {
			r.logger.WithFields(logrus.Fields{
				"facet": facet,
				"error": err,
			}).Warn("Ignoring unreadable preference facet")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("load preferences", err)
	}
	return snap, nil
}

func decodeFacet(snap *models.PreferenceSnapshot, facet string, raw []byte) error {
	switch facet {
	case repository.FacetFavorites:
		var set models.StringSet
		if err := json.Unmarshal(raw, &set); err != nil {
			return err
		}
		snap.Favorites = set
	case repository.FacetBlacklist:
		var set models.StringSet
		if err := json.Unmarshal(raw, &set); err != nil {
			return err
		}
		snap.Blacklist = set
	case repository.FacetCustomLists:
		lists := map[string][]string{}
		if err := json.Unmarshal(raw, &lists); err != nil {
			return err
		}
		if lists == nil {
			lists = map[string][]string{}
		}
		snap.CustomLists = lists
	case repository.FacetSettings:
		var settings models.Settings
		if err := json.Unmarshal(raw, &settings); err != nil {
			return err
		}
		snap.Settings = settings.Normalize()
	default:
		return fmt.Errorf("unknown facet %q", facet)
	}
	return nil
}

func (r *preferenceRepository) SaveFavorites(ctx context.Context, favorites models.StringSet) error {
	return r.save(ctx, repository.FacetFavorites, favorites)
}

func (r *preferenceRepository) SaveBlacklist(ctx context.Context, blacklist models.StringSet) error {
	return r.save(ctx, repository.FacetBlacklist, blacklist)
}

func (r *preferenceRepository) SaveCustomLists(ctx context.Context, lists map[string][]string) error {
	if lists == nil {
		lists = map[string][]string{}
	}
	return r.save(ctx, repository.FacetCustomLists, lists)
}

func (r *preferenceRepository) SaveSettings(ctx context.Context, settings models.Settings) error {
	return r.save(ctx, repository.FacetSettings, settings)
}

func (r *preferenceRepository) save(ctx context.Context, facet string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", facet, err)
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO preferences (facet, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (facet) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := db.ExecContext(ctx, query, facet, raw, time.Now()); err != nil {
		return wrapErr("save "+facet, err)
	}
	return nil
}
