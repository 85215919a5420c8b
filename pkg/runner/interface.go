package runner

import (
	"github.com/lintang-b-s/trafficrouter/pkg/customizer"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
)

// Simulator is the part of the TraCI client the control loop drives.
type Simulator interface {
	SimulationStep() error
	DepartedIDList() ([]string, error)
	VehicleRoute(vehicleID string) ([]string, error)
	EdgeLastStepMeanSpeed(edgeID string) (float64, error)
	SetVehicleRoute(vehicleID string, edges []string) error
	MinExpectedNumber() (int, error)
	SimulationTime() (float64, error)
	Close() error
}

type Estimator interface {
	Refresh(tick int, speedOf customizer.SpeedSource) error
	Snapshot() *da.CostSnapshot
}

type Router interface {
	ShortestPath(origin, destination string, snapshot *da.CostSnapshot) (routing.Route, bool, error)
}

type RecordWriter interface {
	Open() error
	Append(step int, costs map[string]float64) error
	Close() error
}

// EndpointSampler draws a replacement origin/destination pair. ok is false when no pair can be drawn.
type EndpointSampler interface {
	Sample() (origin, destination string, ok bool)
}
