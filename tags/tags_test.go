package tags_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/tatumgo/ids"
	"github.com/katalvlaran/tatumgo/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertOrMerge_KeepMaxStrictImprovementOnly(t *testing.T) {
	ts := tags.New()
	launch, capture := ids.DomainID(0), ids.DomainID(1)

	ts.InsertOrMerge(tags.Tag{Time: 1.0, Launch: launch, Capture: capture, Origin: ids.NodeID(1), Type: tags.DataArrival}, tags.KeepMax)
	ts.InsertOrMerge(tags.Tag{Time: 1.0, Launch: launch, Capture: capture, Origin: ids.NodeID(2), Type: tags.DataArrival}, tags.KeepMax)

	got, ok := ts.FindOne(tags.DataArrival, launch, capture)
	require.True(t, ok)
	assert.Equal(t, ids.NodeID(1), got.Origin, "tie leaves the incumbent origin untouched")

	ts.InsertOrMerge(tags.Tag{Time: 2.0, Launch: launch, Capture: capture, Origin: ids.NodeID(3), Type: tags.DataArrival}, tags.KeepMax)
	got, ok = ts.FindOne(tags.DataArrival, launch, capture)
	require.True(t, ok)
	assert.Equal(t, 2.0, got.Time)
	assert.Equal(t, ids.NodeID(3), got.Origin)
}

func TestInsertOrMerge_KeepMin(t *testing.T) {
	ts := tags.New()
	launch, capture := ids.DomainID(0), ids.DomainID(0)
	ts.InsertOrMerge(tags.Tag{Time: 5.0, Launch: launch, Capture: capture, Type: tags.DataRequired}, tags.KeepMin)
	ts.InsertOrMerge(tags.Tag{Time: 3.0, Launch: launch, Capture: capture, Type: tags.DataRequired}, tags.KeepMin)

	got, ok := ts.FindOne(tags.DataRequired, launch, capture)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Time)
}

func TestConstGenTags_AreIsolatedByWildcardDomain(t *testing.T) {
	setup := tags.ConstGenSetup()
	assert.True(t, math.IsInf(setup.Time, -1))
	assert.True(t, tags.IsConstGen(setup))

	hold := tags.ConstGenHold()
	assert.True(t, math.IsInf(hold.Time, 1))
	assert.True(t, tags.IsConstGen(hold))

	real := tags.Tag{Time: 0.5, Launch: ids.DomainID(0), Capture: ids.DomainID(1), Type: tags.DataArrival}
	assert.False(t, tags.IsConstGen(real))
}

func TestSlack_OverwritesRatherThanMerges(t *testing.T) {
	ts := tags.New()
	launch, capture := ids.DomainID(0), ids.DomainID(1)
	ts.SetSlack(launch, capture, 0.65)
	v, ok := ts.Slack(launch, capture)
	require.True(t, ok)
	assert.Equal(t, 0.65, v)

	ts.SetSlack(launch, capture, -0.1)
	v, ok = ts.Slack(launch, capture)
	require.True(t, ok)
	assert.Equal(t, -0.1, v)
}

func TestClearType_OnlyRemovesThatType(t *testing.T) {
	ts := tags.New()
	launch, capture := ids.DomainID(0), ids.DomainID(0)
	ts.InsertOrMerge(tags.Tag{Time: 1, Launch: launch, Capture: capture, Type: tags.DataArrival}, tags.KeepMax)
	ts.InsertOrMerge(tags.Tag{Time: 2, Launch: launch, Capture: capture, Type: tags.DataRequired}, tags.KeepMin)

	ts.ClearType(tags.DataArrival)
	_, ok := ts.FindOne(tags.DataArrival, launch, capture)
	assert.False(t, ok)
	_, ok = ts.FindOne(tags.DataRequired, launch, capture)
	assert.True(t, ok)
}
