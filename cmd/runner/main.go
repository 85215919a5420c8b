package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lintang-b-s/trafficrouter/pkg/config"
	"github.com/lintang-b-s/trafficrouter/pkg/engine"
	"github.com/lintang-b-s/trafficrouter/pkg/http"
	"github.com/lintang-b-s/trafficrouter/pkg/logger"
	"github.com/lintang-b-s/trafficrouter/pkg/record"
	"github.com/lintang-b-s/trafficrouter/pkg/runner"
	"github.com/lintang-b-s/trafficrouter/pkg/spatialindex"
	"github.com/lintang-b-s/trafficrouter/pkg/traci"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	noGui      = flag.Bool("nogui", false, "run the commandline version of sumo")
	configPath = flag.String("config", "", "config file (default ./data/config.yaml or ./config.yaml)")
	serve      = flag.Bool("serve", false, "serve the read-only inspection api while the simulation runs")
)

func main() {
	flag.Parse()

	sumoHome := os.Getenv("SUMO_HOME")
	if sumoHome == "" {
		fmt.Fprintln(os.Stderr, "please declare environment variable 'SUMO_HOME'")
		os.Exit(1)
	}

	if err := util.ReadConfig(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}
	if *noGui {
		cfg.Simulation.Gui = false
	}
	if *serve {
		cfg.HTTP.Enabled = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sumoHome, log); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("simulation interrupted")
			return
		}
		log.Error("simulation failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Info("simulation finished", zap.String("record", cfg.Output.Path))
}

func run(ctx context.Context, cfg config.Config, sumoHome string, log *zap.Logger) error {
	e, err := engine.NewEngine(ctx, engine.Options{
		NetworkPath: cfg.Network.Path,
		Mode:        cfg.Network.Mode,
		WindowSize:  cfg.Estimator.WindowSize,
		SpeedFloor:  cfg.Estimator.SpeedFloor,
	}, log)
	if err != nil {
		return err
	}

	client, err := traci.Start(ctx, traci.LaunchOptions{
		SumoHome:        sumoHome,
		GUI:             cfg.Simulation.Gui,
		ConfigFile:      cfg.Simulation.Config,
		Port:            cfg.Simulation.Port,
		ConnectRetries:  cfg.Simulation.ConnectRetries,
		ConnectInterval: cfg.Simulation.ConnectInterval,
	}, log)
	if err != nil {
		return err
	}

	rec, err := record.Create(cfg.Output.Path, cfg.Output.LegacyTrailingComma)
	if err != nil {
		client.Close()
		return err
	}

	seed := cfg.Routing.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	network := e.GetNetwork()
	sampler := runner.NewRandomSampler(network.ModeAllowedIDs(cfg.Network.Mode), seed)

	r := runner.NewRunner(client, e.GetCustomizer(), e.GetRoutingEngine(), rec, sampler, runner.Options{
		Cadence:     cfg.Estimator.Cadence,
		MaxAttempts: cfg.Routing.MaxAttempts,
	}, log)

	g, gctx := errgroup.WithContext(ctx)
	httpCtx, stopHTTP := context.WithCancel(gctx)
	defer stopHTTP()

	if cfg.HTTP.Enabled {
		rt := spatialindex.NewRtree(network.IsGeographic())
		rt.Build(network, cfg.Network.Mode, log)

		api := http.NewServer(log)
		r.OnSnapshot(api.Hub().Broadcast)
		g.Go(func() error {
			return api.Use(httpCtx, cfg.HTTP.Port, cfg.HTTP.RateLimit, e.GetRoutingEngine(), r, rt)
		})
	}

	g.Go(func() error {
		defer stopHTTP()
		return r.Run(gctx)
	})
	return g.Wait()
}
