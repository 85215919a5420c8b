package customizer

import (
	"fmt"

	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/lintang-b-s/trafficrouter/pkg/costfunction"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

// SpeedSource returns the mean speed measured on a segment during the last simulated step.
type SpeedSource func(segmentID string) (float64, error)

// Customizer is the rolling cost estimator. it is the only owner of the cost windows;
// everyone else sees immutable CostSnapshots.
type Customizer struct {
	logger       *zap.Logger
	network      *da.Network
	costFunction costfunction.CostFunction
	mode         string
	windowSize   int

	tracked  []da.Index
	windows  []*costWindow // parallel to tracked
	snapshot *da.CostSnapshot
}

func NewCustomizer(network *da.Network, costFunction costfunction.CostFunction, mode string, windowSize int,
	logger *zap.Logger) *Customizer {
	if windowSize <= 0 {
		windowSize = pkg.DEFAULT_WINDOW_SIZE
	}
	return &Customizer{
		logger:       logger,
		network:      network,
		costFunction: costFunction,
		mode:         mode,
		windowSize:   windowSize,
	}
}

// Initialize seeds the window of every segment open to the routed mode with windowSize copies
// of its free-flow travel time and publishes the seed snapshot (tick -1).
func (c *Customizer) Initialize() {
	c.tracked = c.network.ModeAllowedIndices(c.mode)
	c.windows = make([]*costWindow, len(c.tracked))
	for k, i := range c.tracked {
		c.windows[k] = newCostWindow(c.windowSize, c.costFunction.FreeFlowWeight(c.network.GetSegmentAt(i)))
	}
	c.snapshot = c.buildSnapshot(-1)

	c.logger.Sugar().Infof("cost estimator initialized: %d tracked segments, window size %d",
		len(c.tracked), c.windowSize)
}

// Refresh reads one speed sample for every tracked segment, slides its window and rebuilds the snapshot.
// if any read fails the windows are left untouched.
func (c *Customizer) Refresh(tick int, speedOf SpeedSource) error {
	if c.windows == nil {
		return util.WrapErrorf(nil, util.ErrInternalServerError, "cost estimator not initialized")
	}

	samples := make([]float64, len(c.tracked))
	for k, i := range c.tracked {
		s := c.network.GetSegmentAt(i)
		speed, err := speedOf(s.GetID())
		if err != nil {
			return fmt.Errorf("reading mean speed of segment %s: %w", s.GetID(), err)
		}
		samples[k] = c.costFunction.MeasuredWeight(s, speed)
	}

	for k, sample := range samples {
		c.windows[k].push(sample)
	}
	c.snapshot = c.buildSnapshot(tick)

	c.logger.Debug("cost estimator refreshed", zap.Int("tick", tick), zap.Int("segments", len(c.tracked)))
	return nil
}

func (c *Customizer) buildSnapshot(tick int) *da.CostSnapshot {
	n := c.network.NumberOfSegments()
	weights := make([]float64, n)
	tracked := make([]bool, n)
	for k, i := range c.tracked {
		weights[i] = c.windows[k].mean()
		tracked[i] = true
	}
	return da.NewCostSnapshot(tick, c.network, weights, tracked)
}

// Snapshot returns the latest snapshot. nil before Initialize.
func (c *Customizer) Snapshot() *da.CostSnapshot {
	return c.snapshot
}

func (c *Customizer) GetWindowSize() int {
	return c.windowSize
}

func (c *Customizer) NumberOfTracked() int {
	return len(c.tracked)
}

// WindowOf returns a copy of the samples of segmentID, oldest first.
func (c *Customizer) WindowOf(segmentID string) ([]float64, bool) {
	i, ok := c.network.IndexOf(segmentID)
	if !ok {
		return nil, false
	}
	for k, ti := range c.tracked {
		if ti == i {
			return c.windows[k].ordered(), true
		}
	}
	return nil, false
}
