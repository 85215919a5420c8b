package costfunction

// SegmentAttributes is the static part of a road segment a cost function may read.
type SegmentAttributes interface {
	GetID() string
	GetLength() float64
	GetSpeed() float64
}

type CostFunction interface {
	// FreeFlowWeight cost of traversing the segment at its speed limit.
	FreeFlowWeight(s SegmentAttributes) float64
	// MeasuredWeight cost of traversing the segment at an observed mean speed.
	MeasuredWeight(s SegmentAttributes, meanSpeed float64) float64
}
