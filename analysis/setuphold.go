package analysis

import "github.com/katalvlaran/tatumgo/ids"

// SetupHoldOps runs setup and hold analysis together against a single
// shared Context. The
// hold side tags into the Hold* Type space (see holdCombinedDirection) so
// one traversal pass produces both a Slack and a HoldSlack entry per
// (launch, capture) pair without the two checks overwriting each other.
type SetupHoldOps struct {
	setup traversal
	hold traversal
}

// NewSetupHoldOps returns a ready-to-use SetupHoldOps.
func NewSetupHoldOps() *SetupHoldOps {
	return &SetupHoldOps{
		setup: traversal{dir: setupDirection},
		hold: traversal{dir: holdCombinedDirection},
	}
}

func (o *SetupHoldOps) ResetNode(ctx *Context, n ids.NodeID) {
	o.setup.resetNode(ctx, n)
	o.hold.resetNode(ctx, n)
}

func (o *SetupHoldOps) ArrivalPreTraverse(ctx *Context, n ids.NodeID) {
	o.setup.arrivalPreTraverse(ctx, n)
	o.hold.arrivalPreTraverse(ctx, n)
}

func (o *SetupHoldOps) RequiredPreTraverse(ctx *Context, n ids.NodeID) {
	o.setup.requiredPreTraverse(ctx, n)
	o.hold.requiredPreTraverse(ctx, n)
}

func (o *SetupHoldOps) ArrivalTraverse(ctx *Context, n ids.NodeID) error {
	if err := o.setup.arrivalTraverse(ctx, n); err != nil {
		return err
	}
	return o.hold.arrivalTraverse(ctx, n)
}

func (o *SetupHoldOps) RequiredTraverse(ctx *Context, n ids.NodeID) error {
	if err := o.setup.requiredTraverse(ctx, n); err != nil {
		return err
	}
	return o.hold.requiredTraverse(ctx, n)
}

func (o *SetupHoldOps) SlackTraverse(ctx *Context, n ids.NodeID) {
	o.setup.slackTraverse(ctx, n)
	o.hold.slackTraverse(ctx, n)
}
