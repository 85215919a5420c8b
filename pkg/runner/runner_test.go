package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/lintang-b-s/trafficrouter/pkg/costfunction"
	"github.com/lintang-b-s/trafficrouter/pkg/customizer"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	"github.com/lintang-b-s/trafficrouter/pkg/record"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSim struct {
	totalSteps int
	stepped    int
	departed   map[int][]string // step -> vehicles
	declared   map[string][]string
	speeds     map[string]float64
	failStepAt int // 0 never
	rejectSet  map[string]bool

	assigned map[string][]string
	closed   bool
}

func newFakeSim(totalSteps int) *fakeSim {
	return &fakeSim{
		totalSteps: totalSteps,
		departed:   make(map[int][]string),
		declared:   make(map[string][]string),
		speeds:     make(map[string]float64),
		rejectSet:  make(map[string]bool),
		assigned:   make(map[string][]string),
	}
}

func (f *fakeSim) SimulationStep() error {
	if f.failStepAt > 0 && f.stepped+1 == f.failStepAt {
		return util.WrapErrorf(errors.New("broken pipe"), util.ErrSimulatorConnection, "sending traci command")
	}
	f.stepped++
	return nil
}

func (f *fakeSim) DepartedIDList() ([]string, error) {
	return f.departed[f.stepped-1], nil
}

func (f *fakeSim) VehicleRoute(vehicleID string) ([]string, error) {
	return f.declared[vehicleID], nil
}

func (f *fakeSim) EdgeLastStepMeanSpeed(edgeID string) (float64, error) {
	if s, ok := f.speeds[edgeID]; ok {
		return s, nil
	}
	return 10, nil
}

func (f *fakeSim) SetVehicleRoute(vehicleID string, edges []string) error {
	if f.rejectSet[vehicleID] {
		return util.WrapErrorf(nil, util.ErrSimulatorCommand, "Route replacement failed for %s", vehicleID)
	}
	f.assigned[vehicleID] = edges
	return nil
}

func (f *fakeSim) MinExpectedNumber() (int, error) {
	return f.totalSteps - f.stepped, nil
}

// SimulationTime one second per step.
func (f *fakeSim) SimulationTime() (float64, error) {
	return float64(f.stepped), nil
}

func (f *fakeSim) Close() error {
	f.closed = true
	return nil
}

// scriptedSampler hands out pairs in order.
type scriptedSampler struct {
	pairs [][2]string
	calls int
}

func (s *scriptedSampler) Sample() (string, string, bool) {
	if len(s.pairs) == 0 {
		return "", "", false
	}
	p := s.pairs[s.calls%len(s.pairs)]
	s.calls++
	return p[0], p[1], true
}

type fixture struct {
	sim     *fakeSim
	out     *bytes.Buffer
	sampler *scriptedSampler
	runner  *Runner
}

func diamond(t *testing.T) *da.Network {
	t.Helper()
	seg := func(id string, outgoing []string, allow string) *da.Segment {
		lanes := []da.Lane{da.NewLane(id+"_0", 10, 100, da.ParsePermission(allow, ""))}
		return da.NewSegment(id, id+"_from", id+"_to", 100, 10, lanes, outgoing)
	}
	n, err := da.NewNetwork([]*da.Segment{
		seg("A", []string{"B", "C"}, ""),
		seg("B", []string{"D"}, ""),
		seg("C", []string{"D"}, ""),
		seg("D", []string{"bus"}, ""),
		seg("bus", nil, "bus"),
		seg(":J1_0", []string{"D"}, ""),
	}, false)
	require.NoError(t, err)
	return n
}

func newFixture(t *testing.T, totalSteps int, opts Options) *fixture {
	n := diamond(t)
	cf := costfunction.NewTimeCostFunction(0.1)
	c := customizer.NewCustomizer(n, cf, pkg.PASSENGER_CLASS, 5, zap.NewNop())
	c.Initialize()
	re := routing.NewRoutingEngine(n, pkg.PASSENGER_CLASS, cf, zap.NewNop())

	f := &fixture{
		sim:     newFakeSim(totalSteps),
		out:     &bytes.Buffer{},
		sampler: &scriptedSampler{},
	}
	f.runner = NewRunner(f.sim, c, re, record.NewWriter(f.out, false), f.sampler, opts, zap.NewNop())
	return f
}

func (f *fixture) record(t *testing.T) *record.Record {
	t.Helper()
	rec, err := record.Read(bytes.NewReader(f.out.Bytes()))
	require.NoError(t, err)
	return rec
}

func TestRunTwoTicksCadenceOne(t *testing.T) {
	f := newFixture(t, 2, Options{Cadence: 1, MaxAttempts: 10})

	require.NoError(t, f.runner.Run(context.Background()))

	assert.Equal(t, CLOSED, f.runner.State())
	assert.True(t, f.sim.closed)
	assert.Equal(t, 2, f.runner.Steps())

	rec := f.record(t)
	require.Len(t, rec.Entries, 2)
	assert.Equal(t, []int{0, 1}, rec.Steps())
	for _, e := range rec.Entries {
		assert.Len(t, e.Costs, 4)
		for _, id := range []string{"A", "B", "C", "D"} {
			assert.Contains(t, e.Costs, id)
		}
		assert.NotContains(t, e.Costs, "bus")
		assert.NotContains(t, e.Costs, ":J1_0")
	}
	assert.Contains(t, f.out.String(), `{"root":[{"0":`)
}

func TestRunCadence(t *testing.T) {
	f := newFixture(t, 25, Options{Cadence: 10})
	require.NoError(t, f.runner.Run(context.Background()))
	assert.Equal(t, []int{0, 10, 20}, f.record(t).Steps())
	assert.Equal(t, 21.0, f.runner.SimulationTime(), "clock read right after the step refreshed at 20")
}

func TestRunAssignsDeclaredRoute(t *testing.T) {
	f := newFixture(t, 3, Options{Cadence: 1, MaxAttempts: 5})
	f.sim.speeds["B"] = 0.5 // B becomes expensive after the first refresh
	f.sim.departed[1] = []string{"car0"}
	f.sim.declared["car0"] = []string{"A", "B", "D"}

	require.NoError(t, f.runner.Run(context.Background()))
	assert.Equal(t, []string{"A", "C", "D"}, f.sim.assigned["car0"])
	assert.Equal(t, 0, f.sampler.calls)
}

func TestRunResamplesUnreachablePair(t *testing.T) {
	testCases := []struct {
		name  string
		pairs [][2]string
		want  []string
		calls int
	}{
		{
			name:  "second pair reachable",
			pairs: [][2]string{{"A", "D"}},
			want:  []string{"A", "B", "D"},
			calls: 1,
		},
		{
			name:  "first drawn pair unreachable too",
			pairs: [][2]string{{"C", "B"}, {"A", "C"}},
			want:  []string{"A", "C"},
			calls: 2,
		},
		{
			name:  "drawn pair is internal",
			pairs: [][2]string{{":J1_0", "D"}, {"B", "D"}},
			want:  []string{"B", "D"},
			calls: 2,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1, Options{Cadence: 1, MaxAttempts: 10})
			f.sampler.pairs = tt.pairs
			f.sim.departed[0] = []string{"car0"}
			f.sim.declared["car0"] = []string{"D", "A"}

			require.NoError(t, f.runner.Run(context.Background()))
			assert.Equal(t, tt.want, f.sim.assigned["car0"])
			assert.Equal(t, tt.calls, f.sampler.calls)
		})
	}
}

func TestRunSkipsVehicleAfterMaxAttempts(t *testing.T) {
	f := newFixture(t, 1, Options{Cadence: 1, MaxAttempts: 3})
	f.sampler.pairs = [][2]string{{"D", "A"}}
	f.sim.departed[0] = []string{"car0", "car1"}
	f.sim.declared["car0"] = []string{"D", "B"}
	f.sim.declared["car1"] = []string{"A", "D"}

	require.NoError(t, f.runner.Run(context.Background()))
	assert.NotContains(t, f.sim.assigned, "car0")
	assert.Equal(t, 2, f.sampler.calls)
	assert.Equal(t, []string{"A", "B", "D"}, f.sim.assigned["car1"])
}

func TestRunSkipsRejectedResampledRoute(t *testing.T) {
	f := newFixture(t, 1, Options{Cadence: 1, MaxAttempts: 3})
	f.sampler.pairs = [][2]string{{"A", "D"}}
	f.sim.departed[0] = []string{"car0"}
	f.sim.declared["car0"] = []string{"D", "A"}
	f.sim.rejectSet["car0"] = true

	require.NoError(t, f.runner.Run(context.Background()))
	assert.NotContains(t, f.sim.assigned, "car0")
}

func TestRunInvalidDeclaredEndpoint(t *testing.T) {
	f := newFixture(t, 2, Options{Cadence: 1})
	f.sim.departed[0] = []string{"car0"}
	f.sim.declared["car0"] = []string{"A", "nowhere"}

	err := f.runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrInvalidEndpoint))
	assert.True(t, f.sim.closed)
	assert.Equal(t, []int{0}, f.record(t).Steps())
}

func TestRunClosesOnSimulatorFailure(t *testing.T) {
	f := newFixture(t, 5, Options{Cadence: 1})
	f.sim.failStepAt = 3

	err := f.runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrSimulatorConnection))
	assert.Equal(t, CLOSED, f.runner.State())
	assert.True(t, f.sim.closed)
	assert.Equal(t, []int{0, 1}, f.record(t).Steps(), "record stays well formed")
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t, 5, Options{Cadence: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.sim.closed)
	assert.Empty(t, f.record(t).Entries)
}

func TestRunPublishesSnapshots(t *testing.T) {
	f := newFixture(t, 3, Options{Cadence: 1})
	ticks := make([]int, 0)
	f.runner.OnSnapshot(func(s *da.CostSnapshot) {
		ticks = append(ticks, s.GetTick())
	})

	require.NoError(t, f.runner.Run(context.Background()))
	assert.Equal(t, []int{-1, 0, 1, 2}, ticks)
	assert.Equal(t, 2, f.runner.LatestSnapshot().GetTick())
}

func TestRandomSampler(t *testing.T) {
	ids := []string{"A", "B", "C"}
	s := NewRandomSampler(ids, 7)
	other := NewRandomSampler(ids, 7)
	for i := 0; i < 100; i++ {
		o, d, ok := s.Sample()
		require.True(t, ok)
		assert.NotEqual(t, o, d)
		assert.Contains(t, ids, o)
		assert.Contains(t, ids, d)

		o2, d2, _ := other.Sample()
		assert.Equal(t, [2]string{o, d}, [2]string{o2, d2}, "same seed, same draws")
	}

	_, _, ok := NewRandomSampler([]string{"A"}, 1).Sample()
	assert.False(t, ok)
}
