package costfunction

import (
	"github.com/lintang-b-s/trafficrouter/pkg"
)

// TimeFunction weights segments by travel time in seconds.
type TimeFunction struct {
	speedFloor float64
}

func NewTimeCostFunction(speedFloor float64) *TimeFunction {
	if speedFloor <= 0 {
		speedFloor = pkg.DEFAULT_SPEED_FLOOR
	}
	return &TimeFunction{speedFloor: speedFloor}
}

func (tf *TimeFunction) FreeFlowWeight(s SegmentAttributes) float64 {
	return s.GetLength() / s.GetSpeed()
}

// MeasuredWeight. only a stalled reading is replaced by the speed floor; slow but moving traffic keeps its
// measured speed. negative readings are treated as stalled.
func (tf *TimeFunction) MeasuredWeight(s SegmentAttributes, meanSpeed float64) float64 {
	if meanSpeed <= 0 {
		meanSpeed = tf.speedFloor
	}
	return s.GetLength() / meanSpeed
}

func (tf *TimeFunction) GetSpeedFloor() float64 {
	return tf.speedFloor
}
