package analysis

import (
	"fmt"

	"avlint/internal/diag"
	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// Context is the per-invocation capability object handed to a rule callback.
// It exposes the triggering node or symbol, the semantic-query facade of the
// unit, and the diagnostic sink. A Context is transient: the dispatcher
// creates one per dispatch call and rules must not retain it.
type Context struct {
	run    *runState
	active *activeRule
	node   syntax.NodeID
	symbol symbols.SymbolID
}

// Unit returns the unit under analysis.
func (c *Context) Unit() *Unit { return c.run.unit }

// Node returns the triggering node, or NoNodeID during symbol dispatch.
func (c *Context) Node() syntax.NodeID { return c.node }

// NodeData returns the triggering node's data, or nil during symbol dispatch.
func (c *Context) NodeData() *syntax.Node { return c.run.unit.Tree.Get(c.node) }

// Symbol returns the triggering symbol, or NoSymbolID during node dispatch.
func (c *Context) Symbol() symbols.SymbolID { return c.symbol }

// SymbolData returns the triggering symbol's data, or nil during node
// dispatch.
func (c *Context) SymbolData() *symbols.Symbol { return c.run.unit.Symbols.Get(c.symbol) }

// Reportf reports a guideline diagnostic at span with the rule's effective
// severity. A span without a valid file violates the diagnostic invariant;
// such a report is converted into a tooling fault so it cannot masquerade as
// a guideline finding.
func (c *Context) Reportf(span source.Span, format string, args ...any) {
	if !span.File.IsValid() {
		c.run.reportFault(c.active.rule.ID(), span, fmt.Errorf("diagnostic without source location"))
		return
	}
	c.run.sink.Report(diag.Diagnostic{
		Rule:     c.active.rule.ID(),
		Severity: c.active.severity,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	})
}

// ReportNodef reports a diagnostic at the triggering node's span.
func (c *Context) ReportNodef(format string, args ...any) {
	n := c.NodeData()
	if n == nil {
		c.run.reportFault(c.active.rule.ID(), source.Span{}, fmt.Errorf("node report outside node dispatch"))
		return
	}
	c.Reportf(n.Span, format, args...)
}

// ReportSymbolf reports a diagnostic at the triggering symbol's primary
// declaration.
func (c *Context) ReportSymbolf(format string, args ...any) {
	s := c.SymbolData()
	if s == nil {
		c.run.reportFault(c.active.rule.ID(), source.Span{}, fmt.Errorf("symbol report outside symbol dispatch"))
		return
	}
	c.Reportf(s.PrimaryDecl(), format, args...)
}

// DeclaredSymbol resolves the symbol declared by node, see Unit.
func (c *Context) DeclaredSymbol(node syntax.NodeID) (symbols.SymbolID, bool) {
	return c.run.unit.DeclaredSymbol(node)
}

// ReferencedSymbol resolves the symbol a use site refers to, see Unit.
func (c *Context) ReferencedSymbol(node syntax.NodeID) (symbols.SymbolID, bool) {
	return c.run.unit.ReferencedSymbol(node)
}

// DataFlow computes the write set of the subtree at root. Unsuccessful
// queries are counted as semantic gaps in the run result, so infrastructure
// failures stay distinguishable from a genuine absence of writes.
func (c *Context) DataFlow(root syntax.NodeID) DataFlowResult {
	result := c.run.unit.DataFlow(root)
	if !result.Succeeded {
		c.run.semanticGaps++
	}
	return result
}

// InterfaceImplementation returns the interface member sym implements, see
// Unit.
func (c *Context) InterfaceImplementation(sym symbols.SymbolID) (symbols.SymbolID, bool) {
	return c.run.unit.InterfaceImplementation(sym)
}

// PartOfConditionalAccess reports whether node sits underneath a
// conditional-access expression, see Unit.
func (c *Context) PartOfConditionalAccess(node syntax.NodeID) bool {
	return c.run.unit.PartOfConditionalAccess(node)
}
