// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productview/internal/cache"
	"github.com/abgdnv/productview/internal/config"
	"github.com/abgdnv/productview/internal/currency"
	"github.com/abgdnv/productview/internal/service"
	"github.com/abgdnv/productview/internal/store"
	"github.com/abgdnv/productview/internal/transport/rest"
	"github.com/abgdnv/productview/internal/views"
	"github.com/abgdnv/productview/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	CatalogService service.CatalogService
	RankingCache   *cache.Cache[[]store.Product]
	Logger         *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, logger *slog.Logger, cfg *config.Config) *Dependencies {
	pStore := store.NewPgStore(dbPool)
	rankingCache := cache.New[[]store.Product](cfg.Cache.TTL, cfg.Cache.SweepPeriod)
	counter := views.NewCounter(pStore, rankingCache, logger)
	rateSource := currency.NewClient(cfg.Currency.APIURL, cfg.Currency.AccessKey, cfg.Currency.Timeout)
	converter := currency.NewConverter(rateSource, logger)
	cService := service.NewService(pStore, rankingCache, counter, converter)

	return &Dependencies{
		CatalogService: cService,
		RankingCache:   rankingCache,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the catalog service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogHandler := rest.NewHandler(deps.CatalogService, deps.Logger)
	catalogHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
