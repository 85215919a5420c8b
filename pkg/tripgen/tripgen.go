package tripgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/lintang-b-s/trafficrouter/pkg/concurrent"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type Options struct {
	Files          int
	CarTypes       int
	CarLengthMin   int
	CarLengthMax   int
	SpeedFactorMin float64
	SpeedFactorMax float64
	SpeedDev       float64
	Cars           int
	Horizon        int // departures are drawn from [0, Horizon] seconds
	MaxAttempts    int // endpoint draws per vehicle
	Workers        int
	Seed           uint64
}

func DefaultOptions() Options {
	return Options{
		Files:          1,
		CarTypes:       3,
		CarLengthMin:   3,
		CarLengthMax:   6,
		SpeedFactorMin: 0.8,
		SpeedFactorMax: 1.2,
		SpeedDev:       0.1,
		Cars:           1000,
		Horizon:        360,
		MaxAttempts:    100,
		Workers:        runtime.NumCPU(),
	}
}

// Reacher finds a fewest-segments route between two segments.
type Reacher interface {
	ReachabilityPath(origin, destination string) (routing.Route, bool, error)
}

type Generator struct {
	reacher    Reacher
	candidates []string
	opts       Options
	rng        *rand.Rand
	logger     *zap.Logger
}

// NewGenerator draws endpoints from candidates, normally every segment open to passenger cars.
func NewGenerator(reacher Reacher, candidates []string, opts Options, logger *zap.Logger) (*Generator, error) {
	if len(candidates) < 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "need at least two car segments, got %d", len(candidates))
	}
	if opts.CarTypes <= 0 || opts.Cars < 0 || opts.Horizon < 0 || opts.CarLengthMin > opts.CarLengthMax ||
		opts.SpeedFactorMin > opts.SpeedFactorMax || opts.MaxAttempts <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid trip generation options %+v", opts)
	}
	return &Generator{
		reacher:    reacher,
		candidates: candidates,
		opts:       opts,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		logger:     logger,
	}, nil
}

type vehicleJob struct {
	index  int
	vType  string
	depart int
	seed   uint64
}

// Generate builds one route file. every vehicle gets its own random stream so the output does not depend
// on how the worker pool schedules the route searches.
func (g *Generator) Generate(ctx context.Context) (Routes, error) {
	routes := Routes{
		VTypes:   make([]VType, g.opts.CarTypes),
		Vehicles: make([]Vehicle, 0, g.opts.Cars),
	}
	for k := range routes.VTypes {
		routes.VTypes[k] = VType{
			ID:          fmt.Sprintf("carType%d", k),
			Length:      g.opts.CarLengthMin + g.rng.Intn(g.opts.CarLengthMax-g.opts.CarLengthMin+1),
			SpeedFactor: util.RoundFloat(g.opts.SpeedFactorMin+g.rng.Float64()*(g.opts.SpeedFactorMax-g.opts.SpeedFactorMin), 2),
			SpeedDev:    g.opts.SpeedDev,
		}
	}

	departures := make([]int, g.opts.Cars)
	for i := range departures {
		departures[i] = g.rng.Intn(g.opts.Horizon + 1)
	}
	sort.Ints(departures)

	jobs := make([]vehicleJob, g.opts.Cars)
	for i := range jobs {
		jobs[i] = vehicleJob{
			index:  i,
			vType:  fmt.Sprintf("carType%d", g.rng.Intn(g.opts.CarTypes)),
			depart: departures[i],
			seed:   g.rng.Uint64(),
		}
	}

	vehicles, err := concurrent.Map(ctx, g.opts.Workers, jobs, g.routeVehicle)
	if err != nil {
		return Routes{}, err
	}
	routes.Vehicles = append(routes.Vehicles, vehicles...)
	return routes, nil
}

func (g *Generator) routeVehicle(ctx context.Context, job vehicleJob) (Vehicle, error) {
	rng := rand.New(rand.NewSource(job.seed))
	n := len(g.candidates)
	for attempt := 0; attempt < g.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Vehicle{}, err
		}
		o := rng.Intn(n)
		d := rng.Intn(n - 1)
		if d >= o {
			d++
		}

		route, found, err := g.reacher.ReachabilityPath(g.candidates[o], g.candidates[d])
		if err != nil {
			return Vehicle{}, err
		}
		if !found {
			continue
		}
		return Vehicle{
			ID:     fmt.Sprintf("car%d", job.index),
			Type:   job.vType,
			Depart: job.depart,
			Route:  NewRoute(route.Segments),
		}, nil
	}
	return Vehicle{}, util.WrapErrorf(nil, util.ErrNotFound, "car%d: no connected endpoints after %d draws",
		job.index, g.opts.MaxAttempts)
}

// GenerateFiles writes gen<i>.rou.xml into dir for i in [0, Files).
func (g *Generator) GenerateFiles(ctx context.Context, dir string) ([]string, error) {
	paths := make([]string, 0, g.opts.Files)
	for i := 0; i < g.opts.Files; i++ {
		routes, err := g.Generate(ctx)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, fmt.Sprintf("gen%d.rou.xml", i))
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if err := routes.Write(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, path)
		g.logger.Info("route file written", zap.String("path", path), zap.Int("vehicles", len(routes.Vehicles)))
	}
	return paths, nil
}
