//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/planetary-hours/internal/bootstrap"
	"github.com/yanqian/planetary-hours/internal/domain/location"
	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	"github.com/yanqian/planetary-hours/internal/domain/querylog"
	"github.com/yanqian/planetary-hours/internal/infra/config"
	httpiface "github.com/yanqian/planetary-hours/internal/interface/http"
	"github.com/yanqian/planetary-hours/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		providePlanetaryConfig,
		provideLocationConfig,
		provideHandlerConfig,
		provideSunEventProvider,
		provideTimezoneResolver,
		provideHourCache,
		providePostgresPool,
		provideLocationRepository,
		provideQueryLogRepository,
		planetary.NewService,
		location.NewService,
		querylog.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
