package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"

	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/lintang-b-s/trafficrouter/pkg/engine"
	"github.com/lintang-b-s/trafficrouter/pkg/logger"
	"github.com/lintang-b-s/trafficrouter/pkg/tripgen"
	"go.uber.org/zap"
)

var (
	netPath     = flag.String("net", "osm.net.xml", "road network (.net.xml, .osm, .osm.pbf, optionally .bz2)")
	outDir      = flag.String("out", ".", "directory for gen<i>.rou.xml")
	files       = flag.Int("files", 1, "number of route files")
	carTypes    = flag.Int("types", 3, "vehicle types per file")
	cars        = flag.Int("cars", 1000, "vehicles per file")
	horizon     = flag.Int("horizon", 360, "latest departure time in seconds")
	lengthMin   = flag.Int("length_min", 3, "minimum vehicle length in meters")
	lengthMax   = flag.Int("length_max", 6, "maximum vehicle length in meters")
	factorMin   = flag.Float64("speed_factor_min", 0.8, "minimum speed factor")
	factorMax   = flag.Float64("speed_factor_max", 1.2, "maximum speed factor")
	speedDev    = flag.Float64("speed_dev", 0.1, "speed deviation of every vehicle type")
	maxAttempts = flag.Int("max_attempts", 100, "endpoint draws per vehicle before giving up")
	workers     = flag.Int("workers", runtime.NumCPU(), "route search workers")
	seed        = flag.Uint64("seed", 1, "random seed")
	largestSCC  = flag.Bool("largest_component", false, "draw endpoints only from the largest strongly connected component")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := engine.NewEngine(ctx, engine.Options{NetworkPath: *netPath, Mode: pkg.PASSENGER_CLASS}, log)
	if err != nil {
		log.Fatal("loading network", zap.Error(err))
	}

	opts := tripgen.Options{
		Files:          *files,
		CarTypes:       *carTypes,
		CarLengthMin:   *lengthMin,
		CarLengthMax:   *lengthMax,
		SpeedFactorMin: *factorMin,
		SpeedFactorMax: *factorMax,
		SpeedDev:       *speedDev,
		Cars:           *cars,
		Horizon:        *horizon,
		MaxAttempts:    *maxAttempts,
		Workers:        *workers,
		Seed:           *seed,
	}
	candidates := e.GetNetwork().ModeAllowedIDs(pkg.PASSENGER_CLASS)
	if *largestSCC {
		candidates = e.GetNetwork().LargestComponentIDs(pkg.PASSENGER_CLASS)
		log.Info("restricting endpoints to the largest component", zap.Int("segments", len(candidates)))
	}
	gen, err := tripgen.NewGenerator(e.GetRoutingEngine(), candidates, opts, log)
	if err != nil {
		log.Fatal("invalid options", zap.Error(err))
	}

	paths, err := gen.GenerateFiles(ctx, *outDir)
	if err != nil {
		log.Fatal("generating route files", zap.Error(err))
	}
	log.Info("done", zap.Strings("files", paths))
}
