package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/trafficrouter/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/trafficrouter/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/trafficrouter/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
	hub *controllers.Hub
}

func NewAPI(log *zap.Logger, hub *controllers.Hub) *API {
	return &API{log: log, hub: hub}
}

// Handler builds the full middleware chain around the router.
func (api *API) Handler(config http_server.Config, routingService controllers.RoutingService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	router.GET("/ws/snapshots", api.snapshotStream)

	group := router_helper.NewRouteGroup(router, "/api")
	controllers.New(routingService, api.log).Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels, Metrics}
	if config.RateLimit > 0 {
		mwChain = append(mwChain, Limit(config.RateLimit))
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves until ctx is cancelled or the listener fails.
func (api *API) Run(ctx context.Context, config http_server.Config, routingService controllers.RoutingService) error {
	srv := http_server.New(ctx, api.Handler(config, routingService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.hub.RemoveAllUser()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		api.log.Error("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		api.hub.RemoveAllUser()
		return srv.Shutdown(context.Background())
	}
}
