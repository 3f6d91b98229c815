package analysis

import (
	"context"
	"fmt"

	"avlint/internal/diag"
	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// Options adjusts how a dispatcher applies the frozen rule set.
type Options struct {
	// Severity overrides the default severity per rule ID.
	Severity map[string]diag.Severity
	// Disabled rules are not subscribed at all.
	Disabled map[string]bool
}

// activeRule pairs a rule with its effective severity for this session.
type activeRule struct {
	rule     Rule
	severity diag.Severity
}

// Dispatcher owns the kind-to-subscriber tables built once from a frozen
// rule set, giving O(1) lookup per visited node or symbol. A dispatcher is
// immutable after construction and may run many units, sequentially or from
// concurrent goroutines sharing one sink.
type Dispatcher struct {
	nodeSubs   [syntax.KindCount][]*activeRule
	symbolSubs [symbols.KindCount][]*activeRule
	active     []*activeRule
}

// NewDispatcher builds dispatch tables from the rule set, honoring severity
// overrides and disabled rules. Subscriber order within a kind follows
// registration order.
func NewDispatcher(set *RuleSet, opts Options) *Dispatcher {
	d := &Dispatcher{}
	for _, rule := range set.Rules() {
		id := rule.ID()
		if opts.Disabled[id] {
			continue
		}
		severity := rule.DefaultSeverity()
		if override, ok := opts.Severity[id]; ok {
			severity = override
		}
		ar := &activeRule{rule: rule, severity: severity}
		d.active = append(d.active, ar)
		for _, kind := range rule.NodeKinds() {
			if kind.IsValid() {
				d.nodeSubs[kind] = append(d.nodeSubs[kind], ar)
			}
		}
		for _, kind := range rule.SymbolKinds() {
			if kind.IsValid() {
				d.symbolSubs[kind] = append(d.symbolSubs[kind], ar)
			}
		}
	}
	return d
}

// ActiveRules returns the IDs of rules that survived disabling, in
// registration order.
func (d *Dispatcher) ActiveRules() []string {
	out := make([]string, 0, len(d.active))
	for _, ar := range d.active {
		out = append(out, ar.rule.ID())
	}
	return out
}

// Result summarizes one Run.
type Result struct {
	// Incomplete is set when cancellation stopped the traversal early;
	// collected diagnostics are partial.
	Incomplete bool
	// NodesVisited and SymbolsVisited count dispatch positions, not
	// callback invocations.
	NodesVisited   int
	SymbolsVisited int
	// Faults counts rule callbacks that crashed.
	Faults int
	// SemanticGaps counts semantic queries that returned "unknown", kept
	// separate from "no findings" so infrastructure failures stay visible.
	SemanticGaps int
}

// runState is the mutable state shared by all contexts of one Run call.
type runState struct {
	unit         *Unit
	sink         *diag.Sink
	faults       int
	semanticGaps int
}

func (rs *runState) reportFault(ruleID string, span source.Span, err error) {
	rs.faults++
	rs.sink.Report(diag.Diagnostic{
		Rule:     ruleID,
		Severity: diag.SevError,
		Message:  fmt.Sprintf("analyzer %s failed: %v", ruleID, err),
		Primary:  span,
		Fault:    true,
	})
}

// Run performs one analysis pass over the unit: a single stable pre-order
// traversal of the syntax tree, then one pass over the symbol arena (each
// symbol visited once regardless of how many declarations contribute to
// it). Within one node or symbol, subscribed callbacks run in registration
// order and the position is dispatched atomically as a unit.
//
// Cancellation is cooperative: the context is checked between visits, never
// mid-callback. On cancellation the collected diagnostics are returned with
// Result.Incomplete set.
func (d *Dispatcher) Run(ctx context.Context, unit *Unit, sink *diag.Sink) Result {
	rs := &runState{unit: unit, sink: sink}
	result := Result{}

	complete := unit.Tree.Walk(func(id syntax.NodeID, n *syntax.Node) bool {
		if ctx.Err() != nil {
			return false
		}
		result.NodesVisited++
		for _, ar := range d.nodeSubs[n.Kind] {
			d.invoke(rs, ar, &Context{run: rs, active: ar, node: id}, n.Span)
		}
		return true
	})
	if !complete && ctx.Err() != nil {
		result.Incomplete = true
		result.Faults = rs.faults
		result.SemanticGaps = rs.semanticGaps
		return result
	}

	complete = unit.Symbols.Each(func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if ctx.Err() != nil {
			return false
		}
		result.SymbolsVisited++
		for _, ar := range d.symbolSubs[s.Kind] {
			d.invoke(rs, ar, &Context{run: rs, active: ar, symbol: id}, s.PrimaryDecl())
		}
		return true
	})
	if !complete && ctx.Err() != nil {
		result.Incomplete = true
	}

	result.Faults = rs.faults
	result.SemanticGaps = rs.semanticGaps
	return result
}

// invoke runs one callback, converting a panic into a tooling fault so one
// crashing rule cannot abort the traversal for the others.
func (d *Dispatcher) invoke(rs *runState, ar *activeRule, c *Context, at source.Span) {
	defer func() {
		if r := recover(); r != nil {
			rs.reportFault(ar.rule.ID(), at, fmt.Errorf("panic: %v", r))
		}
	}()
	ar.rule.Inspect(c)
}
