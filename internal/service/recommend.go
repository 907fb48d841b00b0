package service

import (
	"context"
	"errors"
	"fmt"

	"lol-runesync/internal/api"
	"lol-runesync/internal/config"
	"lol-runesync/internal/constants"
	"lol-runesync/internal/domain"
	"lol-runesync/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownChampion = errors.New("champion not listed in static data")

// RecommendationService resolves everything the poller needs for one
// champion: its display name, the recommended build and rune metadata.
type RecommendationService struct {
	ddragon *api.DDragonClient
	stats   *api.StatsClient
	static  *repository.StaticRepository
	builds  *repository.BuildRepository
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewRecommendationService(
	ddragon *api.DDragonClient,
	stats *api.StatsClient,
	static *repository.StaticRepository,
	builds *repository.BuildRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *RecommendationService {
	return &RecommendationService{
		ddragon: ddragon,
		stats:   stats,
		static:  static,
		builds:  builds,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *RecommendationService) Recommend(ctx context.Context, championID int) (*domain.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RecommendTimeout)
	defer cancel()

	version, err := s.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("champion_id", championID).Str("version", version).Msg("fetching recommendation")

	var (
		champs   []domain.Champion
		runeMeta []domain.RuneMeta
		build    *domain.Build
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		champs, err = s.champions(gCtx, version)
		return err
	})
	g.Go(func() error {
		var err error
		runeMeta, err = s.runes(gCtx, version)
		return err
	})
	g.Go(func() error {
		var err error
		build, err = s.build(gCtx, version, championID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int("champion_id", championID).Msg("failed to fetch recommendation")
		return nil, err
	}

	var champion *domain.Champion
	for i := range champs {
		if champs[i].Key == championID {
			champion = &champs[i]
			break
		}
	}
	if champion == nil {
		return nil, fmt.Errorf("%w: %d (version %s)", ErrUnknownChampion, championID, version)
	}

	meta := make(map[int]domain.RuneMeta, len(runeMeta))
	for _, m := range runeMeta {
		meta[m.ID] = m
	}

	return &domain.Recommendation{
		Champion: *champion,
		Mode:     s.cfg.ModeLabel(),
		Build:    *build,
		Runes:    meta,
	}, nil
}

func (s *RecommendationService) resolveVersion(ctx context.Context) (string, error) {
	if s.cfg.GameVersion != "" {
		return s.cfg.GameVersion, nil
	}
	version, err := s.ddragon.LatestVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve game version: %w", err)
	}
	return version, nil
}

func (s *RecommendationService) champions(ctx context.Context, version string) ([]domain.Champion, error) {
	return loadStatic(ctx, s, repository.KindChampions, version,
		s.static.Champions, s.ddragon.GetChampions, s.static.ReplaceChampions)
}

func (s *RecommendationService) runes(ctx context.Context, version string) ([]domain.RuneMeta, error) {
	return loadStatic(ctx, s, repository.KindRunes, version,
		s.static.Runes, s.ddragon.GetRunes, s.static.ReplaceRunes)
}

// loadStatic serves static data from the cache while it is fresh and falls
// back to a stale copy when Data Dragon cannot be reached.
func loadStatic[T any](
	ctx context.Context,
	s *RecommendationService,
	kind, version string,
	cached func(context.Context, string) ([]T, error),
	fetch func(context.Context, string) ([]T, error),
	store func(context.Context, string, []T) error,
) ([]T, error) {
	shouldRefresh, err := s.static.ShouldRefresh(ctx, kind, version, constants.StaticDataTTL)
	if err != nil {
		shouldRefresh = true
	}

	if !shouldRefresh {
		items, err := cached(ctx, version)
		if err == nil && len(items) > 0 {
			s.logger.Debug().Str("kind", kind).Str("version", version).Msg("returning cached static data")
			return items, nil
		}
	}

	items, err := fetch(ctx, version)
	if err != nil {
		if stale, cacheErr := cached(ctx, version); cacheErr == nil && len(stale) > 0 {
			s.logger.Warn().Err(err).Str("kind", kind).Msg("static data fetch failed, using stale cache")
			return stale, nil
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}

	if err := store(ctx, version, items); err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Msg("failed to cache static data")
	}
	return items, nil
}

func (s *RecommendationService) build(ctx context.Context, version string, championID int) (*domain.Build, error) {
	key := repository.BuildKey{
		ChampionID: championID,
		Version:    version,
		Role:       s.cfg.Role,
		Mode:       s.cfg.Mode,
		Region:     s.cfg.Region,
	}

	shouldRefresh, err := s.builds.ShouldRefresh(ctx, key, s.cfg.CacheTTL)
	if err != nil {
		shouldRefresh = true
	}
	if !shouldRefresh {
		if b, err := s.builds.Get(ctx, key); err == nil {
			s.logger.Debug().Int("champion_id", championID).Msg("returning cached build")
			return b, nil
		}
	}

	b, err := s.stats.GetBuild(ctx, api.BuildQuery{
		Version:    version,
		ChampionID: championID,
		Role:       s.cfg.Role,
		Mode:       s.cfg.Mode,
		Region:     s.cfg.Region,
	})
	if err != nil {
		if stale, cacheErr := s.builds.Get(ctx, key); cacheErr == nil {
			s.logger.Warn().Err(err).Int("champion_id", championID).Msg("build fetch failed, using stale cache")
			return stale, nil
		}
		return nil, fmt.Errorf("failed to fetch build: %w", err)
	}

	if err := s.builds.Upsert(ctx, key, b); err != nil {
		s.logger.Warn().Err(err).Int("champion_id", championID).Msg("failed to cache build")
	}

	s.logger.Debug().
		Int("champion_id", championID).
		Str("role", b.Role).
		Int("matches", b.Matches).
		Float64("win_rate", b.WinRate).
		Msg("build fetched")
	return b, nil
}
