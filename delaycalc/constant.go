package delaycalc

import (
	"math"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tgraph"
)

// ConstantDelayCalculator is a reference DelayCalculator that returns a
// fixed delay/setup/hold value per edge, set up front via Set*. It exists
// for tests and small fixtures; production delay calculators are external
// collaborators that model real cell/wire delay.
type ConstantDelayCalculator struct {
	minDelay map[ids.EdgeID]float64
	maxDelay map[ids.EdgeID]float64
	setupTime map[ids.EdgeID]float64
	holdTime map[ids.EdgeID]float64

	// Default is returned for any edge without an explicit override. It
	// defaults to 0, never NaN, so an un-configured edge never trips the
	// MissingDelayError fatal path by surprise.
	Default float64
}

// NewConstant returns a ConstantDelayCalculator whose edges all default
// to delay/setup/hold = 0 unless overridden via Set*.
func NewConstant() *ConstantDelayCalculator {
	return &ConstantDelayCalculator{
		minDelay: make(map[ids.EdgeID]float64),
		maxDelay: make(map[ids.EdgeID]float64),
		setupTime: make(map[ids.EdgeID]float64),
		holdTime: make(map[ids.EdgeID]float64),
	}
}

// SetDelay sets both the min and max edge delay for edge to the same value
// (the common case for a fixture with no early/late skew).
func (c *ConstantDelayCalculator) SetDelay(edge ids.EdgeID, delay float64) {
	c.minDelay[edge] = delay
	c.maxDelay[edge] = delay
}

// SetMinMaxDelay sets distinct min and max edge delays for edge.
func (c *ConstantDelayCalculator) SetMinMaxDelay(edge ids.EdgeID, min, max float64) {
	c.minDelay[edge] = min
	c.maxDelay[edge] = max
}

// SetSetupTime sets the setup check time for a PRIMITIVE_CLOCK_CAPTURE edge.
func (c *ConstantDelayCalculator) SetSetupTime(edge ids.EdgeID, t float64) {
	c.setupTime[edge] = t
}

// SetHoldTime sets the hold check time for a PRIMITIVE_CLOCK_CAPTURE edge.
func (c *ConstantDelayCalculator) SetHoldTime(edge ids.EdgeID, t float64) {
	c.holdTime[edge] = t
}

// SetNaN forces edge's min and max delay to NaN, exercising the MissingDelayError
// fatal path in tests.
func (c *ConstantDelayCalculator) SetNaN(edge ids.EdgeID) {
	c.minDelay[edge] = math.NaN()
	c.maxDelay[edge] = math.NaN()
}

func (c *ConstantDelayCalculator) MinEdgeDelay(_ *tgraph.Graph, edge ids.EdgeID) float64 {
	if v, ok := c.minDelay[edge]; ok {
		return v
	}
	return c.Default
}

func (c *ConstantDelayCalculator) MaxEdgeDelay(_ *tgraph.Graph, edge ids.EdgeID) float64 {
	if v, ok := c.maxDelay[edge]; ok {
		return v
	}
	return c.Default
}

func (c *ConstantDelayCalculator) SetupTime(_ *tgraph.Graph, edge ids.EdgeID) float64 {
	if v, ok := c.setupTime[edge]; ok {
		return v
	}
	return c.Default
}

func (c *ConstantDelayCalculator) HoldTime(_ *tgraph.Graph, edge ids.EdgeID) float64 {
	if v, ok := c.holdTime[edge]; ok {
		return v
	}
	return c.Default
}
