// internal/engine/range.go
package engine

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"qcrules/internal/policy"
)

// ComputeRange returns the acceptance range for target under mode.
func (e *Engine) ComputeRange(target float64, mode policy.Mode) (ToleranceRange, error) {
	b, err := e.Bands(target, mode)
	if err != nil {
		return ToleranceRange{}, err
	}
	return b.Accept, nil
}

// Bands computes the acceptance range and preferred band for target.
// Only numeric-range and upper-bound modes have bands.
//
// Invariants: Accept.Low <= Accept.High; both bounds are non-decreasing in
// target for a fixed mode; numeric-range modes keep the target inside
// Accept; upper-bound modes pin Accept.Low to 0 and give High = 0 for a
// zero target.
func (e *Engine) Bands(target float64, mode policy.Mode) (Bands, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return Bands{}, fmt.Errorf("%w: %v is not finite", ErrInvalidTarget, target)
	}
	if target < 0 {
		return Bands{}, fmt.Errorf("%w: must be >= 0, got %v", ErrInvalidTarget, target)
	}
	s, err := policy.StrategyOf(mode)
	if err != nil {
		return Bands{}, err
	}
	curve, err := e.cfg.Policy.Curve(mode)
	if err != nil {
		return Bands{}, err
	}
	prec := e.cfg.Policy.Precision
	switch s {
	case policy.StrategyNumericRange:
		return rangeBands(curve, prec, target), nil
	case policy.StrategyUpperBound:
		return upperBands(curve, prec, target), nil
	}
	return Bands{}, fmt.Errorf("mode %q has no numeric range", mode)
}

// rangeBands brackets target with the factors of its tier. Each bound is
// floored at the value the previous tiers reached at their upper edge, so
// a tier granting wider tolerance to small targets never makes a bound
// drop when the target crosses into the next tier.
func rangeBands(c policy.Curve, prec int, t float64) Bands {
	if t == 0 {
		return Bands{Accept: ToleranceRange{}}
	}
	idx := c.TierIndex(t)
	var lowFloor, highFloor, plFloor, phFloor float64
	for _, prev := range c.Tiers[:idx] {
		edge := *prev.MaxTarget
		lowFloor = math.Max(lowFloor, edge*prev.AcceptLow)
		highFloor = math.Max(highFloor, edge*prev.AcceptHigh)
		if prev.HasPreferred() {
			plFloor = math.Max(plFloor, edge * *prev.PreferredLow)
			phFloor = math.Max(phFloor, edge * *prev.PreferredHigh)
		}
	}

	tier := c.Tiers[idx]
	accept := ToleranceRange{
		Low:  math.Min(round(math.Max(t*tier.AcceptLow, lowFloor), prec), t),
		High: math.Max(round(math.Max(t*tier.AcceptHigh, highFloor), prec), t),
	}
	out := Bands{Accept: accept}
	if tier.HasPreferred() {
		pl := math.Min(round(math.Max(t * *tier.PreferredLow, plFloor), prec), t)
		ph := math.Max(round(math.Max(t * *tier.PreferredHigh, phFloor), prec), t)
		out.Preferred = &ToleranceRange{
			Low:  math.Max(pl, accept.Low),
			High: math.Min(ph, accept.High),
		}
	}
	return out
}

// upperBands accepts [0, target*(1+margin)]. The optional preferred band
// is [0, fraction*target].
func upperBands(c policy.Curve, prec int, t float64) Bands {
	high := math.Max(round(t*(1+c.Margin), prec), t)
	out := Bands{Accept: ToleranceRange{Low: 0, High: high}}
	if c.PreferredFraction != nil && t > 0 {
		out.Preferred = &ToleranceRange{Low: 0, High: math.Min(round(t * *c.PreferredFraction, prec), high)}
	}
	return out
}

// round is half-away-from-zero at prec decimals; inputs here are finite.
func round(v float64, prec int) float64 {
	r, err := stats.Round(v, prec)
	if err != nil {
		return v
	}
	return r
}
