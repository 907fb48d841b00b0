package fx

import (
	"lol-runesync/internal/api"
	"lol-runesync/internal/config"
	"lol-runesync/internal/database"
	"lol-runesync/internal/lockfile"
	"lol-runesync/internal/logger"
	"lol-runesync/internal/poller"
	"lol-runesync/internal/repository"
	"lol-runesync/internal/server"
	"lol-runesync/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvidePoller(
	locator *lockfile.Locator,
	recommender *service.RecommendationService,
	publisher *service.RunePagePublisher,
	logger zerolog.Logger,
) *poller.Poller {
	return poller.New(poller.LockfileConnector(locator, logger), recommender, publisher, logger)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewStaticRepository),
	fx.Provide(repository.NewBuildRepository),
	// api clients
	fx.Provide(api.NewDDragonClient),
	fx.Provide(api.NewStatsClient),
	fx.Provide(lockfile.NewLocator),
	// svc
	fx.Provide(service.NewRecommendationService),
	fx.Provide(service.NewRunePagePublisher),
	fx.Provide(ProvidePoller),
	// server
	fx.Provide(server.NewStatusServer),
)
