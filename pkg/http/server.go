package http

import (
	"context"
	"time"

	"github.com/lintang-b-s/trafficrouter/pkg/http/router"
	"github.com/lintang-b-s/trafficrouter/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/trafficrouter/pkg/http/server"
	"github.com/lintang-b-s/trafficrouter/pkg/http/usecases"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Server struct {
	Log *zap.Logger
	hub *controllers.Hub
}

func NewServer(log *zap.Logger) *Server {
	viper.SetDefault("API_WS_WRITE_TIMEOUT", "2s")
	writeTimeout := viper.GetDuration("API_WS_WRITE_TIMEOUT")
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}
	return &Server{Log: log, hub: controllers.NewHub(log, writeTimeout)}
}

// Hub is the websocket fan-out; register its Broadcast as a snapshot listener.
func (s *Server) Hub() *controllers.Hub {
	return s.hub
}

// Use builds the read-only inspection api and serves it until ctx is done.
func (s *Server) Use(
	ctx context.Context,
	port int,
	rateLimit float64,
	engine usecases.RoutingEngine,
	snapshots usecases.SnapshotSource,
	spatialIndex usecases.SpatialIndex,
) error {
	viper.SetDefault("API_TIMEOUT", "60s")
	viper.SetDefault("API_ROUTE_CACHE_SIZE", 1<<12)

	config := http_server.Config{
		Port:      port,
		Timeout:   viper.GetDuration("API_TIMEOUT"),
		RateLimit: rateLimit,
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	routingService, err := usecases.NewRoutingService(s.Log, engine, snapshots, spatialIndex,
		viper.GetInt("API_ROUTE_CACHE_SIZE"))
	if err != nil {
		return err
	}

	return router.NewAPI(s.Log, s.hub).Run(ctx, config, routingService)
}
