package tconstraints

import "github.com/katalvlaran/tatumgo/ids"

// AddClockDomain registers a new clock domain and returns its dense id.
// Pass ids.InvalidNode for source to create a virtual domain.
//
// Complexity: O(1) amortized.
func (c *Constraints) AddClockDomain(name string, source ids.NodeID) ids.DomainID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := ids.DomainID(len(c.domains))
	c.domains = append(c.domains, ClockDomain{ID: id, Name: name, Source: source})
	return id
}

// Domain returns the domain registered under id, or (_, false) if unknown.
func (c *Constraints) Domain(id ids.DomainID) (ClockDomain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if int(id) < 0 || int(id) >= len(c.domains) {
		return ClockDomain{}, false
	}
	return c.domains[id], true
}

// Domains returns every registered clock domain, in dense id order.
func (c *Constraints) Domains() []ClockDomain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ClockDomain, len(c.domains))
	copy(out, c.domains)
	return out
}

// IsVirtual reports whether domain id has no clock source.
func (c *Constraints) IsVirtual(id ids.DomainID) bool {
	d, ok := c.Domain(id)
	return ok && !d.Source.IsValid()
}

// MarkConstantGenerator flags node n as a constant generator: arrival tags
// originating there are suppressed.
func (c *Constraints) MarkConstantGenerator(n ids.NodeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constantGenerators[n] = struct{}{}
}

// IsConstantGenerator reports whether n was marked via MarkConstantGenerator.
func (c *Constraints) IsConstantGenerator(n ids.NodeID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.constantGenerators[n]
	return ok
}

// SetInputConstraint sets the MAX_INPUT_CONSTRAINT/MIN_INPUT_CONSTRAINT
// value for (node, domain).
func (c *Constraints) SetInputConstraint(node ids.NodeID, domain ids.DomainID, bound Bound, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := ioKey{node: node, domain: domain, bound: bound}
	c.inputConstraints[key] = value
}

// InputConstraint looks up the input constraint for (node, domain, bound).
func (c *Constraints) InputConstraint(node ids.NodeID, domain ids.DomainID, bound Bound) Constraint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.inputConstraints[ioKey{node: node, domain: domain, bound: bound}]
	return Constraint{Value: v, Ok: ok}
}

// SetOutputConstraint sets the MAX_OUTPUT_CONSTRAINT/MIN_OUTPUT_CONSTRAINT
// value for (node, domain).
func (c *Constraints) SetOutputConstraint(node ids.NodeID, domain ids.DomainID, bound Bound, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := ioKey{node: node, domain: domain, bound: bound}
	c.outputConstraints[key] = value
}

// OutputConstraint looks up the output constraint for (node, domain, bound).
func (c *Constraints) OutputConstraint(node ids.NodeID, domain ids.DomainID, bound Bound) Constraint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.outputConstraints[ioKey{node: node, domain: domain, bound: bound}]
	return Constraint{Value: v, Ok: ok}
}

// SetSetupConstraint sets the setup-check constraint for the (launch,
// capture) domain transfer. Absence means "do not analyze this transfer".
func (c *Constraints) SetSetupConstraint(launch, capture ids.DomainID, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setupConstraints[pairKey{launch, capture}] = value
}

// SetupConstraint looks up the setup constraint for (launch, capture).
func (c *Constraints) SetupConstraint(launch, capture ids.DomainID) Constraint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.setupConstraints[pairKey{launch, capture}]
	return Constraint{Value: v, Ok: ok}
}

// SetHoldConstraint sets the hold-check constraint for the (launch,
// capture) domain transfer.
func (c *Constraints) SetHoldConstraint(launch, capture ids.DomainID, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holdConstraints[pairKey{launch, capture}] = value
}

// HoldConstraint looks up the hold constraint for (launch, capture).
func (c *Constraints) HoldConstraint(launch, capture ids.DomainID) Constraint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.holdConstraints[pairKey{launch, capture}]
	return Constraint{Value: v, Ok: ok}
}

// ShouldAnalyze reports whether the (launch, capture) transfer has a
// setup or hold constraint registered.
func (c *Constraints) ShouldAnalyze(launch, capture ids.DomainID) bool {
	return c.SetupConstraint(launch, capture).Ok || c.HoldConstraint(launch, capture).Ok
}

// SetSetupUncertainty sets the subtractive pessimism applied to the
// capture side of a setup check for (launch, capture).
func (c *Constraints) SetSetupUncertainty(launch, capture ids.DomainID, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setupUncertainty[pairKey{launch, capture}] = value
}

// SetupUncertainty returns the setup uncertainty for (launch, capture), or
// 0 if never set.
func (c *Constraints) SetupUncertainty(launch, capture ids.DomainID) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.setupUncertainty[pairKey{launch, capture}]
}

// SetHoldUncertainty sets the additive pessimism applied to the capture
// side of a hold check for (launch, capture).
func (c *Constraints) SetHoldUncertainty(launch, capture ids.DomainID, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holdUncertainty[pairKey{launch, capture}] = value
}

// HoldUncertainty returns the hold uncertainty for (launch, capture), or 0
// if never set.
func (c *Constraints) HoldUncertainty(launch, capture ids.DomainID) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.holdUncertainty[pairKey{launch, capture}]
}

// SetEarlySourceLatency sets the early (min) source latency for domain.
func (c *Constraints) SetEarlySourceLatency(domain ids.DomainID, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.earlySourceLatency[domain] = value
}

// EarlySourceLatency returns the early source latency for domain, or 0 if
// never set.
func (c *Constraints) EarlySourceLatency(domain ids.DomainID) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.earlySourceLatency[domain]
}

// SetLateSourceLatency sets the late (max) source latency for domain.
func (c *Constraints) SetLateSourceLatency(domain ids.DomainID, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lateSourceLatency[domain] = value
}

// LateSourceLatency returns the late source latency for domain, or 0 if
// never set.
func (c *Constraints) LateSourceLatency(domain ids.DomainID) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lateSourceLatency[domain]
}

// RemapNodes rewrites every node id this Constraints set stores internally
// (clock sources, constant generators, I/O constraint keys) using
// nodeMap[oldID] = newID, as produced by tgraph.Graph.OptimizeLayout.
//
// Complexity: O(domains + constant-generators + I/O constraints).
func (c *Constraints) RemapNodes(nodeMap []ids.NodeID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.domains {
		if c.domains[i].Source.IsValid() {
			c.domains[i].Source = nodeMap[c.domains[i].Source]
		}
	}

	remappedGens := make(map[ids.NodeID]struct{}, len(c.constantGenerators))
	for n := range c.constantGenerators {
		remappedGens[nodeMap[n]] = struct{}{}
	}
	c.constantGenerators = remappedGens

	c.inputConstraints = remapIOKeys(c.inputConstraints, nodeMap)
	c.outputConstraints = remapIOKeys(c.outputConstraints, nodeMap)
}

func remapIOKeys(m map[ioKey]float64, nodeMap []ids.NodeID) map[ioKey]float64 {
	out := make(map[ioKey]float64, len(m))
	for k, v := range m {
		k.node = nodeMap[k.node]
		out[k] = v
	}
	return out
}
