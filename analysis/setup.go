package analysis

import "github.com/katalvlaran/tatumgo/ids"

// SetupOps implements Ops for long-path (setup) analysis: arrival tags
// keep the latest (max) time seen, required tags keep the earliest (min),
// and slack is required-minus-arrival.
type SetupOps struct {
	t traversal
}

// NewSetupOps returns a ready-to-use SetupOps.
func NewSetupOps() *SetupOps { return &SetupOps{t: traversal{dir: setupDirection}} }

func (o *SetupOps) ResetNode(ctx *Context, n ids.NodeID)       { o.t.resetNode(ctx, n) }
func (o *SetupOps) ArrivalPreTraverse(ctx *Context, n ids.NodeID)  { o.t.arrivalPreTraverse(ctx, n) }
func (o *SetupOps) RequiredPreTraverse(ctx *Context, n ids.NodeID)  { o.t.requiredPreTraverse(ctx, n) }
func (o *SetupOps) ArrivalTraverse(ctx *Context, n ids.NodeID) error { return o.t.arrivalTraverse(ctx, n) }
func (o *SetupOps) RequiredTraverse(ctx *Context, n ids.NodeID) error {
	return o.t.requiredTraverse(ctx, n)
}
func (o *SetupOps) SlackTraverse(ctx *Context, n ids.NodeID) { o.t.slackTraverse(ctx, n) }
