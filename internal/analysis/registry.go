package analysis

import (
	"fmt"
)

// Registry collects rules during startup. Registration is explicit: hosts
// call Register for every rule (builtin catalogs attach via their own
// RegisterBuiltin helpers), then Freeze the set before analysis. There is no
// package-level mutable registry.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds a rule. Empty and duplicate IDs are rejected.
func (r *Registry) Register(rule Rule) error {
	id := rule.ID()
	if id == "" {
		return fmt.Errorf("analysis: rule with empty ID")
	}
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("analysis: duplicate rule ID %q", id)
	}
	if len(rule.NodeKinds()) == 0 && len(rule.SymbolKinds()) == 0 {
		return fmt.Errorf("analysis: rule %q subscribes to nothing", id)
	}
	r.byID[id] = rule
	r.rules = append(r.rules, rule)
	return nil
}

// Lookup returns the rule registered under id.
func (r *Registry) Lookup(id string) (Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Freeze produces the immutable rule set used for the rest of the analysis
// session.
func (r *Registry) Freeze() *RuleSet {
	return &RuleSet{rules: r.Rules()}
}

// RuleSet is a process-wide immutable collection of rules.
type RuleSet struct {
	rules []Rule
}

// Rules returns the rules in registration order.
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len reports the number of rules in the set.
func (s *RuleSet) Len() int { return len(s.rules) }
