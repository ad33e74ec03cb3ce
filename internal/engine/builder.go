// internal/engine/builder.go
package engine

import (
	"fmt"

	"qcrules/internal/policy"
)

type bindFunc func(e *Engine, s ParameterSpec, pair *QualitativeOutcome) (ParameterRule, error)

// binders dispatches on the mode's strategy, never on the mode itself.
var binders = map[policy.Strategy]bindFunc{
	policy.StrategyNumericRange: (*Engine).bindRange,
	policy.StrategyUpperBound:   (*Engine).bindRange,
	policy.StrategyQualitative:  (*Engine).bindQualitative,
	policy.StrategyNone:         (*Engine).bindNone,
}

// Build turns one spec into a rule. pair is only read for qualitative
// modes. Errors are *ParamError carrying the spec's index.
func (e *Engine) Build(s ParameterSpec, pair *QualitativeOutcome) (ParameterRule, error) {
	strat, err := policy.StrategyOf(s.Mode)
	if err != nil {
		return ParameterRule{}, specError(s, err)
	}
	bind, ok := binders[strat]
	if !ok {
		return ParameterRule{}, specError(s, fmt.Errorf("no binder for strategy %q", strat))
	}
	r, err := bind(e, s, pair)
	if err != nil {
		return ParameterRule{}, specError(s, err)
	}
	return r, nil
}

// BuildAll builds every spec in order. quals holds the --qual pairs: one
// pair is shared by all qualitative specs, otherwise there must be exactly
// one pair per qualitative spec, bound in order.
func (e *Engine) BuildAll(specs []ParameterSpec, quals []QualitativeOutcome) ([]ParameterRule, error) {
	var qualIdx []int
	for i, s := range specs {
		if s.Mode == policy.ModeQualitative {
			qualIdx = append(qualIdx, i)
		}
	}
	switch {
	case len(qualIdx) > 0 && len(quals) == 0:
		first := specs[qualIdx[0]]
		return nil, specError(first, fmt.Errorf("%w: qualitative mode needs --qual PASS FAIL", ErrMissingQualitativeText))
	case len(qualIdx) > 0 && len(quals) > 1 && len(quals) != len(qualIdx):
		return nil, fmt.Errorf("%w: %d --qual pairs for %d qualitative parameters; give one shared pair or one per parameter",
			ErrMissingQualitativeText, len(quals), len(qualIdx))
	}

	pairs := make(map[int]*QualitativeOutcome, len(qualIdx))
	for n, i := range qualIdx {
		q := quals[0]
		if len(quals) > 1 {
			q = quals[n]
		}
		pairs[i] = &q
	}

	rules := make([]ParameterRule, 0, len(specs))
	for i, s := range specs {
		r, err := e.Build(s, pairs[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (e *Engine) bindRange(s ParameterSpec, _ *QualitativeOutcome) (ParameterRule, error) {
	if s.Target == nil {
		return ParameterRule{}, fmt.Errorf("%w: mode %s needs a numeric target, got null", ErrInvalidTarget, s.Mode)
	}
	b, err := e.Bands(*s.Target, s.Mode)
	if err != nil {
		return ParameterRule{}, err
	}
	accept := b.Accept
	return ParameterRule{Spec: s, Range: &accept, Preferred: b.Preferred}, nil
}

func (e *Engine) bindQualitative(s ParameterSpec, pair *QualitativeOutcome) (ParameterRule, error) {
	if pair == nil {
		return ParameterRule{}, fmt.Errorf("%w: qualitative mode needs --qual PASS FAIL", ErrMissingQualitativeText)
	}
	q, err := BindQualitative(pair.PassText, pair.FailText)
	if err != nil {
		return ParameterRule{}, err
	}
	return ParameterRule{Spec: s, Qualitative: &q}, nil
}

func (e *Engine) bindNone(s ParameterSpec, _ *QualitativeOutcome) (ParameterRule, error) {
	return ParameterRule{Spec: s}, nil
}
