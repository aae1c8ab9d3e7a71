package server

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/pkg/application"
	"github.com/iota-uz/atlas/pkg/configuration"
	"github.com/iota-uz/atlas/pkg/constants"
	"github.com/iota-uz/atlas/pkg/middleware"
	"github.com/iota-uz/atlas/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.Cors(options.Configuration.Origin),
	}

	if options.Configuration.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: options.Configuration.RateLimit.GlobalRPS,
			Store:             middleware.NewMemoryStore(),
		}))
	}

	middlewares = append(middlewares,
		middleware.RequestParams(),
		middleware.WithTransaction(),
		middleware.ProvideLocalizer(app),
	)

	app.RegisterMiddleware(middlewares...)
	return server.NewHTTPServer(app), nil
}
