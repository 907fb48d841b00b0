package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lol-runesync/internal/constants"
	"lol-runesync/internal/domain"

	"github.com/rs/zerolog"
)

const (
	KindChampions = "champions"
	KindRunes     = "runes"
)

// StaticRepository caches Data Dragon champions and runes per game version.
type StaticRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStaticRepository(sqlDB *sql.DB, logger zerolog.Logger) *StaticRepository {
	return &StaticRepository{db: sqlDB, logger: logger}
}

func (r *StaticRepository) ShouldRefresh(ctx context.Context, kind, version string, ttl time.Duration) (bool, error) {
	var fetchedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM static_fetches WHERE kind = ? AND version = ?`, kind, version,
	).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("kind", kind).Str("version", version).Msg("static data not cached, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("kind", kind).Msg("failed to read static fetch time")
		return false, err
	}

	timeSince := time.Since(fetchedAt)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Str("kind", kind).
		Str("version", version).
		Time("fetched_at", fetchedAt).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if static data should refresh")

	return shouldRefresh, nil
}

func (r *StaticRepository) ReplaceChampions(ctx context.Context, version string, champs []domain.Champion) error {
	return r.replace(ctx, KindChampions, version, len(champs),
		`DELETE FROM champions WHERE version = ?`,
		`INSERT INTO champions (version, key, id, name) VALUES (?, ?, ?, ?)`,
		func(i int) []any {
			c := champs[i]
			return []any{version, c.Key, c.ID, c.Name}
		})
}

func (r *StaticRepository) ReplaceRunes(ctx context.Context, version string, runes []domain.RuneMeta) error {
	return r.replace(ctx, KindRunes, version, len(runes),
		`DELETE FROM runes WHERE version = ?`,
		`INSERT INTO runes (version, id, style_id, rune_row, name) VALUES (?, ?, ?, ?, ?)`,
		func(i int) []any {
			ru := runes[i]
			return []any{version, ru.ID, ru.StyleID, ru.Row, ru.Name}
		})
}

func (r *StaticRepository) Champions(ctx context.Context, version string) ([]domain.Champion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, id, name FROM champions WHERE version = ? ORDER BY key`, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Champion
	for rows.Next() {
		c := domain.Champion{Version: version}
		if err := rows.Scan(&c.Key, &c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *StaticRepository) Runes(ctx context.Context, version string) ([]domain.RuneMeta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, style_id, rune_row, name FROM runes WHERE version = ? ORDER BY id`, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RuneMeta
	for rows.Next() {
		m := domain.RuneMeta{Version: version}
		if err := rows.Scan(&m.ID, &m.StyleID, &m.Row, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *StaticRepository) replace(ctx context.Context, kind, version string, n int, deleteSQL, insertSQL string, args func(int) []any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteSQL, version); err != nil {
		return fmt.Errorf("failed to clear %s: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", kind, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, n)
		for j := i; j < end; j++ {
			if _, err := stmt.ExecContext(ctx, args(j)...); err != nil {
				return fmt.Errorf("failed to insert %s row: %w", kind, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO static_fetches (kind, version, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT (kind, version) DO UPDATE SET fetched_at = excluded.fetched_at`,
		kind, version, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to record %s fetch: %w", kind, err)
	}

	r.logger.Debug().Str("kind", kind).Str("version", version).Int("rows", n).Msg("static data cached")
	return tx.Commit()
}
