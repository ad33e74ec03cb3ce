// internal/policy/table.go
package policy

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultPrecision is used when a policy file omits `precision`.
const DefaultPrecision = 2

// Tier is one magnitude band of a numeric-range curve. Factors multiply
// the target; MaxTarget nil marks the open-ended last tier.
type Tier struct {
	MaxTarget     *float64 `yaml:"max_target"`
	AcceptLow     float64  `yaml:"accept_low"`
	AcceptHigh    float64  `yaml:"accept_high"`
	PreferredLow  *float64 `yaml:"preferred_low,omitempty"`
	PreferredHigh *float64 `yaml:"preferred_high,omitempty"`
}

// HasPreferred reports whether the tier defines an inner band.
func (t Tier) HasPreferred() bool { return t.PreferredLow != nil && t.PreferredHigh != nil }

// Curve holds the tolerance data of one mode. Numeric-range modes use
// Tiers; upper-bound modes use Margin and PreferredFraction.
type Curve struct {
	Tiers             []Tier   `yaml:"tiers,omitempty"`
	Margin            float64  `yaml:"margin,omitempty"`
	PreferredFraction *float64 `yaml:"preferred_fraction,omitempty"`
}

// TierIndex returns the first tier whose MaxTarget covers target.
func (c Curve) TierIndex(target float64) int {
	for i, t := range c.Tiers {
		if t.MaxTarget == nil || target <= *t.MaxTarget {
			return i
		}
	}
	return len(c.Tiers) - 1
}

// Table is the mode policy table: rounding precision plus one curve per
// mode that needs one.
type Table struct {
	Version   int            `yaml:"version"`
	Precision int            `yaml:"precision"`
	Modes     map[Mode]Curve `yaml:"modes"`
}

// Curve returns the tolerance curve for m.
func (t Table) Curve(m Mode) (Curve, error) {
	s, err := StrategyOf(m)
	if err != nil {
		return Curve{}, err
	}
	if !s.NeedsCurve() {
		return Curve{}, fmt.Errorf("mode %q (%s) has no tolerance curve", m, s)
	}
	c, ok := t.Modes[m]
	if !ok {
		return Curve{}, fmt.Errorf("policy has no curve for mode %q", m)
	}
	return c, nil
}

// Validate checks the table against the registry and the curve invariants.
func (t Table) Validate() error {
	if t.Version != 1 {
		return fmt.Errorf("policy: unsupported version %d (want 1)", t.Version)
	}
	if t.Precision < 0 || t.Precision > 6 {
		return fmt.Errorf("policy: precision must be within 0..6, got %d", t.Precision)
	}

	keys := make([]string, 0, len(t.Modes))
	for m := range t.Modes {
		keys = append(keys, string(m))
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := Mode(k)
		s, err := StrategyOf(m)
		if err != nil {
			return fmt.Errorf("policy: %w", err)
		}
		if !s.NeedsCurve() {
			return fmt.Errorf("policy: mode %q takes no curve", m)
		}
	}

	var errs []error
	for _, m := range Modes() {
		s, _ := StrategyOf(m)
		if !s.NeedsCurve() {
			continue
		}
		c, ok := t.Modes[m]
		if !ok {
			errs = append(errs, fmt.Errorf("policy: missing curve for mode %q", m))
			continue
		}
		var err error
		switch s {
		case StrategyNumericRange:
			err = validateRangeCurve(c)
		case StrategyUpperBound:
			err = validateUpperCurve(c)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("policy: mode %q: %w", m, err))
		}
	}
	return errors.Join(errs...)
}

func validateRangeCurve(c Curve) error {
	if len(c.Tiers) == 0 {
		return errors.New("needs at least one tier")
	}
	if c.Margin != 0 || c.PreferredFraction != nil {
		return errors.New("margin/preferred_fraction only apply to limit modes")
	}
	for i, t := range c.Tiers {
		last := i == len(c.Tiers)-1
		switch {
		case last && t.MaxTarget != nil:
			return fmt.Errorf("tier %d: last tier must be open-ended (no max_target)", i+1)
		case !last && t.MaxTarget == nil:
			return fmt.Errorf("tier %d: only the last tier may be open-ended", i+1)
		}
		if t.MaxTarget != nil {
			if !finite(*t.MaxTarget) || *t.MaxTarget <= 0 {
				return fmt.Errorf("tier %d: max_target must be a positive number", i+1)
			}
			if i > 0 && *t.MaxTarget <= *c.Tiers[i-1].MaxTarget {
				return fmt.Errorf("tier %d: max_target must increase", i+1)
			}
		}
		if (t.PreferredLow == nil) != (t.PreferredHigh == nil) {
			return fmt.Errorf("tier %d: preferred_low and preferred_high go together", i+1)
		}
		lo, hi := 1.0, 1.0
		if t.HasPreferred() {
			lo, hi = *t.PreferredLow, *t.PreferredHigh
		}
		for _, f := range []float64{t.AcceptLow, t.AcceptHigh, lo, hi} {
			if !finite(f) {
				return fmt.Errorf("tier %d: factors must be finite", i+1)
			}
		}
		if !(0 <= t.AcceptLow && t.AcceptLow <= lo && lo <= 1 && 1 <= hi && hi <= t.AcceptHigh) {
			return fmt.Errorf("tier %d: need 0 <= accept_low <= preferred_low <= 1 <= preferred_high <= accept_high", i+1)
		}
	}
	return nil
}

func validateUpperCurve(c Curve) error {
	if len(c.Tiers) > 0 {
		return errors.New("tiers only apply to active/mineral modes")
	}
	if !finite(c.Margin) || c.Margin < 0 {
		return errors.New("margin must be a non-negative number")
	}
	if f := c.PreferredFraction; f != nil && (!finite(*f) || *f < 0 || *f > 1) {
		return errors.New("preferred_fraction must be within 0..1")
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
