//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-explorer/internal/bootstrap"
	"github.com/yanqian/weather-explorer/internal/domain/viewstate"
	"github.com/yanqian/weather-explorer/internal/domain/weather"
	"github.com/yanqian/weather-explorer/internal/infra/config"
	"github.com/yanqian/weather-explorer/internal/infra/weatherapi"
	httpiface "github.com/yanqian/weather-explorer/internal/interface/http"
	"github.com/yanqian/weather-explorer/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideWeatherConfig,
		provideViewStateConfig,
		provideCookieConfig,
		provideWeatherClient,
		provideValkeyClient,
		provideTrendingStore,
		provideLookupLog,
		provideSessionStore,
		weather.NewService,
		viewstate.NewService,
		wire.Bind(new(weather.Provider), new(*weatherapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
