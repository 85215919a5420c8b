package engine

import (
	"context"

	"github.com/lintang-b-s/trafficrouter/pkg/costfunction"
	"github.com/lintang-b-s/trafficrouter/pkg/customizer"
	"github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	"github.com/lintang-b-s/trafficrouter/pkg/netparser"
	"go.uber.org/zap"
)

type Options struct {
	NetworkPath string
	Mode        string
	WindowSize  int
	SpeedFloor  float64
}

// Engine bundles the loaded network with the estimator and the routing engine that read it.
type Engine struct {
	network       *datastructure.Network
	customizer    *customizer.Customizer
	routingEngine *routing.RoutingEngine
}

func (e *Engine) GetNetwork() *datastructure.Network {
	return e.network
}

func (e *Engine) GetCustomizer() *customizer.Customizer {
	return e.customizer
}

func (e *Engine) GetRoutingEngine() *routing.RoutingEngine {
	return e.routingEngine
}

func NewEngine(ctx context.Context, opts Options, logger *zap.Logger) (*Engine, error) {
	logger.Info("Reading road network from ", zap.String("networkPath", opts.NetworkPath))
	network, err := netparser.Load(ctx, opts.NetworkPath, logger)
	if err != nil {
		return nil, err
	}
	return NewEngineFromNetwork(network, opts, logger), nil
}

// NewEngineFromNetwork wires an already loaded network. the estimator is initialized and holds the seed snapshot.
func NewEngineFromNetwork(network *datastructure.Network, opts Options, logger *zap.Logger) *Engine {
	costFunction := costfunction.NewTimeCostFunction(opts.SpeedFloor)

	c := customizer.NewCustomizer(network, costFunction, opts.Mode, opts.WindowSize, logger)
	c.Initialize()

	logger.Info("Starting routing engine...", zap.Int("segments", network.NumberOfSegments()),
		zap.String("mode", opts.Mode))
	return &Engine{
		network:       network,
		customizer:    c,
		routingEngine: routing.NewRoutingEngine(network, opts.Mode, costFunction, logger),
	}
}
