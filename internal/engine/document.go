// internal/engine/document.go
package engine

import "qcrules/internal/policy"

// Assemble collects rules under specID in the order given. Duplicate
// parameter ids are kept; nothing is sorted.
func Assemble(specID int, rules []ParameterRule) RuleDocument {
	params := make([]ParameterRule, len(rules))
	copy(params, rules)
	return RuleDocument{SpecID: specID, Parameters: params}
}

// HasQualitative reports whether any spec uses the qualitative mode.
func HasQualitative(specs []ParameterSpec) bool {
	for _, s := range specs {
		if s.Mode == policy.ModeQualitative {
			return true
		}
	}
	return false
}
