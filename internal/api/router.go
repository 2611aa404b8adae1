package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/citymap/internal/api/handlers"
	"github.com/Togather-Foundation/citymap/internal/api/middleware"
	"github.com/Togather-Foundation/citymap/internal/config"
	"github.com/Togather-Foundation/citymap/internal/domain/events"
	"github.com/Togather-Foundation/citymap/internal/metrics"
	"github.com/Togather-Foundation/citymap/internal/storage/postgres"
)

// NewRouter builds the HTTP host. No database connection is made here; each
// events request and each readiness probe opens its own.
func NewRouter(cfg config.Config, logger zerolog.Logger, build BuildInfo) http.Handler {
	connector := postgres.NewConnector(cfg.Database.ConnectTimeout)
	eventsHandler := handlers.NewEventsHandler(events.NewService(connector), cfg.Database)

	return routes{
		logger:   logger,
		events:   eventsHandler.Handle,
		pinger:   connector,
		database: cfg.Database,
		build:    build,
	}.handler()
}

type routes struct {
	logger   zerolog.Logger
	events   ProxyFunc
	pinger   handlers.Pinger
	database config.DatabaseConfig
	build    BuildInfo
}

func (rt routes) handler() http.Handler {
	router := mux.NewRouter()
	router.Use(
		middleware.Tracing,
		middleware.CorrelationID(rt.logger),
		middleware.RequestLogging(rt.logger),
		metrics.HTTPMiddleware,
	)

	eventsProxy := ProxyHandler(rt.events)
	router.Handle("/api/v1/events", eventsProxy)
	router.Handle("/events", eventsProxy)

	router.Handle("/healthz", handlers.Healthz())
	router.Handle("/readyz", handlers.Readyz(rt.pinger, rt.database))
	router.Handle("/version", VersionHandler(rt.build))
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return middleware.Recovery(rt.logger)(router)
}
