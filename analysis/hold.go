package analysis

import "github.com/katalvlaran/tatumgo/ids"

// HoldOps implements Ops for short-path (hold) analysis: arrival tags
// keep the earliest (min) time seen, required tags keep the latest (max),
// and slack is arrival-minus-required.
type HoldOps struct {
	t traversal
}

// NewHoldOps returns a ready-to-use HoldOps.
func NewHoldOps() *HoldOps { return &HoldOps{t: traversal{dir: holdDirection}} }

func (o *HoldOps) ResetNode(ctx *Context, n ids.NodeID)       { o.t.resetNode(ctx, n) }
func (o *HoldOps) ArrivalPreTraverse(ctx *Context, n ids.NodeID)  { o.t.arrivalPreTraverse(ctx, n) }
func (o *HoldOps) RequiredPreTraverse(ctx *Context, n ids.NodeID)  { o.t.requiredPreTraverse(ctx, n) }
func (o *HoldOps) ArrivalTraverse(ctx *Context, n ids.NodeID) error { return o.t.arrivalTraverse(ctx, n) }
func (o *HoldOps) RequiredTraverse(ctx *Context, n ids.NodeID) error {
	return o.t.requiredTraverse(ctx, n)
}
func (o *HoldOps) SlackTraverse(ctx *Context, n ids.NodeID) { o.t.slackTraverse(ctx, n) }
