package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lintang-b-s/trafficrouter/pkg"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

type State int32

const (
	INIT State = iota
	STEPPING
	CLOSED
)

func (s State) String() string {
	switch s {
	case INIT:
		return "init"
	case STEPPING:
		return "stepping"
	case CLOSED:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type Options struct {
	// Cadence refresh the estimator every Cadence steps.
	Cadence int
	// MaxAttempts route attempts per vehicle, the declared endpoints included. 0 retries until a path is found.
	MaxAttempts int
}

// Runner is the simulation-step control loop.
type Runner struct {
	logger    *zap.Logger
	sim       Simulator
	estimator Estimator
	router    Router
	record    RecordWriter
	sampler   EndpointSampler
	opts      Options

	state   atomic.Int32
	step    int
	simTime float64
	latest  atomic.Pointer[da.CostSnapshot]

	listenersMu sync.RWMutex
	listeners   []func(*da.CostSnapshot)
}

func NewRunner(sim Simulator, estimator Estimator, router Router, record RecordWriter, sampler EndpointSampler,
	opts Options, logger *zap.Logger) *Runner {
	if opts.Cadence <= 0 {
		opts.Cadence = pkg.DEFAULT_REFRESH_CADENCE
	}
	if opts.MaxAttempts < 0 {
		opts.MaxAttempts = pkg.DEFAULT_MAX_ROUTE_ATTEMPTS
	}
	r := &Runner{
		logger:    logger,
		sim:       sim,
		estimator: estimator,
		router:    router,
		record:    record,
		sampler:   sampler,
		opts:      opts,
	}
	r.state.Store(int32(INIT))
	return r
}

func (r *Runner) State() State {
	return State(r.state.Load())
}

// Steps number of simulation steps completed so far.
func (r *Runner) Steps() int {
	return r.step
}

// SimulationTime simulator clock in seconds as of the last refresh.
func (r *Runner) SimulationTime() float64 {
	return r.simTime
}

// LatestSnapshot the most recently published cost snapshot. safe to call from other goroutines.
func (r *Runner) LatestSnapshot() *da.CostSnapshot {
	return r.latest.Load()
}

// OnSnapshot registers a callback invoked on the loop goroutine after every refresh.
func (r *Runner) OnSnapshot(fn func(*da.CostSnapshot)) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Runner) publish(snapshot *da.CostSnapshot) {
	if snapshot == nil {
		return
	}
	r.latest.Store(snapshot)
	r.listenersMu.RLock()
	defer r.listenersMu.RUnlock()
	for _, fn := range r.listeners {
		fn(snapshot)
	}
}

/*
Run drives the simulation until it reports no further scheduled activity:

	advance one step
	every Cadence steps: refresh the estimator from the measured mean speeds and append the snapshot to the record
	route every vehicle that departed during the step on the current snapshot

the simulator connection and the record are closed on every exit path. a cancelled ctx stops the loop between steps.
*/
func (r *Runner) Run(ctx context.Context) (err error) {
	r.logger.Info("control loop starting", zap.Int("cadence", r.opts.Cadence), zap.Int("max_attempts", r.opts.MaxAttempts))
	defer func() {
		r.state.Store(int32(CLOSED))
		if cerr := r.sim.Close(); cerr != nil {
			r.logger.Error("closing simulator", zap.Error(cerr))
			err = errors.Join(err, cerr)
		}
		if cerr := r.record.Close(); cerr != nil {
			r.logger.Error("closing record", zap.Error(cerr))
			err = errors.Join(err, cerr)
		}
		r.logger.Info("control loop closed", zap.Int("steps", r.step))
	}()

	if err := r.record.Open(); err != nil {
		return fmt.Errorf("opening record: %w", err)
	}
	r.publish(r.estimator.Snapshot())

	r.state.Store(int32(STEPPING))
	for {
		remaining, err := r.sim.MinExpectedNumber()
		if err != nil {
			return err
		}
		if remaining <= 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			r.logger.Warn("control loop cancelled", zap.Int("step", r.step))
			return err
		}

		if err := r.Step(); err != nil {
			return err
		}
	}
}

// Step advances the simulation once and handles refresh and arrivals for that step.
func (r *Runner) Step() error {
	if err := r.sim.SimulationStep(); err != nil {
		return err
	}
	stepsTotal.Inc()

	if r.step%r.opts.Cadence == 0 {
		if err := r.refresh(); err != nil {
			return err
		}
	}

	departed, err := r.sim.DepartedIDList()
	if err != nil {
		return err
	}
	snapshot := r.estimator.Snapshot()
	for _, vehicleID := range departed {
		if err := r.assignRoute(vehicleID, snapshot); err != nil {
			return err
		}
	}

	r.step++
	return nil
}

func (r *Runner) refresh() error {
	if err := r.estimator.Refresh(r.step, r.sim.EdgeLastStepMeanSpeed); err != nil {
		return err
	}
	snapshot := r.estimator.Snapshot()
	if err := r.record.Append(r.step, snapshot.AsMap()); err != nil {
		return fmt.Errorf("appending step %d to record: %w", r.step, err)
	}
	simTime, err := r.sim.SimulationTime()
	if err != nil {
		return err
	}
	r.simTime = simTime
	simulationTime.Set(simTime)
	refreshTotal.Inc()
	r.publish(snapshot)
	r.logger.Info("costs refreshed", zap.Int("step", r.step), zap.Float64("sim_time", simTime),
		zap.Int("segments", snapshot.Len()))
	return nil
}

// assignRoute routes a newly departed vehicle between its declared endpoints. when they are not connected
// replacement endpoints are drawn until a path is found or the attempts run out; then the vehicle keeps the
// route it departed with.
func (r *Runner) assignRoute(vehicleID string, snapshot *da.CostSnapshot) error {
	declared, err := r.sim.VehicleRoute(vehicleID)
	if err != nil {
		return err
	}
	if len(declared) == 0 {
		r.logger.Warn("vehicle has an empty route", zap.String("vehicle", vehicleID))
		routeAssignments.WithLabelValues("skipped").Inc()
		return nil
	}
	origin, destination := declared[0], declared[len(declared)-1]

	for attempt := 1; r.opts.MaxAttempts == 0 || attempt <= r.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			var ok bool
			origin, destination, ok = r.sampler.Sample()
			if !ok {
				break
			}
			resampleTotal.Inc()
			r.logger.Debug("resampled endpoints", zap.String("vehicle", vehicleID), zap.Int("attempt", attempt),
				zap.String("origin", origin), zap.String("destination", destination))
		}

		route, found, err := r.router.ShortestPath(origin, destination, snapshot)
		if err != nil {
			if attempt > 1 && errors.Is(err, util.ErrInvalidEndpoint) {
				continue
			}
			return fmt.Errorf("routing vehicle %s: %w", vehicleID, err)
		}
		if !found {
			continue
		}

		if err := r.sim.SetVehicleRoute(vehicleID, route.Segments); err != nil {
			if attempt > 1 && errors.Is(err, util.ErrSimulatorCommand) {
				r.logger.Warn("simulator rejected resampled route", zap.String("vehicle", vehicleID), zap.Error(err))
				routeAssignments.WithLabelValues("skipped").Inc()
				return nil
			}
			return err
		}

		result := "declared"
		if attempt > 1 {
			result = "resampled"
		}
		routeAssignments.WithLabelValues(result).Inc()
		r.logger.Debug("route assigned", zap.String("vehicle", vehicleID), zap.Int("step", r.step),
			zap.Int("segments", len(route.Segments)), zap.Float64("cost", route.Cost))
		return nil
	}

	routeAssignments.WithLabelValues("skipped").Inc()
	r.logger.Warn("no route found, vehicle skipped", zap.String("vehicle", vehicleID),
		zap.Int("max_attempts", r.opts.MaxAttempts))
	return nil
}
