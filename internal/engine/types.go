// internal/engine/types.go
package engine

import "qcrules/internal/policy"

// ParameterSpec is one validated parameter entry.
type ParameterSpec struct {
	Index       int // 1-based position among the invocation's entries
	ParameterID int
	Target      *float64 // nil when given as null
	Unit        *string  // nil when given as null
	Mode        policy.Mode
}

// ToleranceRange is an inclusive [Low, High] interval.
type ToleranceRange struct {
	Low  float64
	High float64
}

// Contains reports whether v lies inside the range.
func (r ToleranceRange) Contains(v float64) bool { return r.Low <= v && v <= r.High }

// Bands is what the range calculator produces: the acceptance range and,
// when the curve defines one, the preferred band nested inside it.
type Bands struct {
	Accept    ToleranceRange
	Preferred *ToleranceRange
}

// QualitativeOutcome is a pass/fail phrase pair. Both are always set.
type QualitativeOutcome struct {
	PassText string
	FailText string
}

// ParameterRule binds a spec to its computed content. Numeric modes set
// Range (and maybe Preferred), qualitative sets Qualitative, dummy sets
// nothing.
type ParameterRule struct {
	Spec        ParameterSpec
	Range       *ToleranceRange
	Preferred   *ToleranceRange
	Qualitative *QualitativeOutcome
}

// RuleDocument is the ordered set of rules for one specification.
type RuleDocument struct {
	SpecID     int
	Parameters []ParameterRule
}
