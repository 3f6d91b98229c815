// Package rules carries the builtin guideline catalog. Each rule is a small
// independent checker over the syntax tree or symbol graph; the engine in
// internal/analysis knows nothing about any of them.
package rules

import (
	"avlint/internal/analysis"
)

// Builtin returns fresh instances of the builtin rule catalog in stable
// order.
func Builtin() []analysis.Rule {
	return []analysis.Rule{
		&namespaceMatchesAssembly{},
		&loopVariableNotChanged{},
		&identifierContainsDigit{},
		&typeNameGenericTerm{},
		&memberRepeatsTypeName{},
		&nestedConditionalAccess{},
	}
}

// RegisterBuiltin registers the builtin catalog with reg.
func RegisterBuiltin(reg *analysis.Registry) error {
	for _, r := range Builtin() {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}
