package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lol-runesync/internal/domain"

	"github.com/rs/zerolog"
)

// BuildKey identifies one cached build. Role is the requested role, which
// may be "auto"; the resolved role is stored alongside.
type BuildKey struct {
	ChampionID int
	Version    string
	Role       string
	Mode       string
	Region     string
}

type BuildRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBuildRepository(sqlDB *sql.DB, logger zerolog.Logger) *BuildRepository {
	return &BuildRepository{db: sqlDB, logger: logger}
}

func (r *BuildRepository) Get(ctx context.Context, key BuildKey) (*domain.Build, error) {
	var (
		runeIDs, shardIDs string
		b                 = domain.Build{
			ChampionID: key.ChampionID,
			Version:    key.Version,
			Mode:       key.Mode,
			Region:     key.Region,
		}
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT resolved_role, rune_ids, shard_ids, primary_style_id, sub_style_id, matches, win_rate, fetched_at
		FROM builds
		WHERE champion_id = ? AND version = ? AND role = ? AND mode = ? AND region = ?`,
		key.ChampionID, key.Version, key.Role, key.Mode, key.Region,
	).Scan(&b.Role, &runeIDs, &shardIDs, &b.PrimaryStyleID, &b.SubStyleID, &b.Matches, &b.WinRate, &b.FetchedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(runeIDs), &b.RuneIDs); err != nil {
		return nil, fmt.Errorf("failed to decode cached rune ids: %w", err)
	}
	if err := json.Unmarshal([]byte(shardIDs), &b.ShardIDs); err != nil {
		return nil, fmt.Errorf("failed to decode cached shard ids: %w", err)
	}
	return &b, nil
}

func (r *BuildRepository) Upsert(ctx context.Context, key BuildKey, b *domain.Build) error {
	runeIDs, err := json.Marshal(b.RuneIDs)
	if err != nil {
		return err
	}
	shardIDs, err := json.Marshal(b.ShardIDs)
	if err != nil {
		return err
	}
	fetchedAt := b.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO builds (champion_id, version, role, mode, region, resolved_role, rune_ids, shard_ids,
			primary_style_id, sub_style_id, matches, win_rate, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (champion_id, version, role, mode, region) DO UPDATE SET
			resolved_role = excluded.resolved_role,
			rune_ids = excluded.rune_ids,
			shard_ids = excluded.shard_ids,
			primary_style_id = excluded.primary_style_id,
			sub_style_id = excluded.sub_style_id,
			matches = excluded.matches,
			win_rate = excluded.win_rate,
			fetched_at = excluded.fetched_at`,
		key.ChampionID, key.Version, key.Role, key.Mode, key.Region, b.Role, string(runeIDs), string(shardIDs),
		b.PrimaryStyleID, b.SubStyleID, b.Matches, b.WinRate, fetchedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Int("champion_id", key.ChampionID).Msg("failed to cache build")
		return fmt.Errorf("failed to upsert build: %w", err)
	}
	return nil
}

func (r *BuildRepository) ShouldRefresh(ctx context.Context, key BuildKey, ttl time.Duration) (bool, error) {
	var fetchedAt time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT fetched_at FROM builds
		WHERE champion_id = ? AND version = ? AND role = ? AND mode = ? AND region = ?`,
		key.ChampionID, key.Version, key.Role, key.Mode, key.Region,
	).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Int("champion_id", key.ChampionID).Msg("build not cached, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Int("champion_id", key.ChampionID).Msg("failed to get build fetch time")
		return false, err
	}

	timeSince := time.Since(fetchedAt)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Int("champion_id", key.ChampionID).
		Time("fetched_at", fetchedAt).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if build should refresh")

	return shouldRefresh, nil
}
