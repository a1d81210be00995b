package delaycalc_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/tatumgo/delaycalc"
	"github.com/katalvlaran/tatumgo/ids"
	"github.com/stretchr/testify/assert"
)

func TestConstantDelayCalculator_DefaultsAndOverrides(t *testing.T) {
	c := delaycalc.NewConstant()
	e := ids.EdgeID(0)

	assert.Equal(t, 0.0, c.MinEdgeDelay(nil, e))
	assert.Equal(t, 0.0, c.MaxEdgeDelay(nil, e))

	c.SetDelay(e, 0.1)
	assert.Equal(t, 0.1, c.MinEdgeDelay(nil, e))
	assert.Equal(t, 0.1, c.MaxEdgeDelay(nil, e))

	c.SetSetupTime(e, 0.05)
	c.SetHoldTime(e, 0.02)
	assert.Equal(t, 0.05, c.SetupTime(nil, e))
	assert.Equal(t, 0.02, c.HoldTime(nil, e))
}

func TestConstantDelayCalculator_SetNaN(t *testing.T) {
	c := delaycalc.NewConstant()
	e := ids.EdgeID(1)
	c.SetNaN(e)
	assert.True(t, math.IsNaN(c.MaxEdgeDelay(nil, e)))
}
