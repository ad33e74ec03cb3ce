// internal/policy/mode.go
package policy

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the evaluation policy declared for one parameter.
type Mode string

const (
	ModeActive      Mode = "active"
	ModeMineral     Mode = "mineral"
	ModeLimit       Mode = "limit"
	ModeLimit2      Mode = "limit2"
	ModeLimit3      Mode = "limit3"
	ModeQualitative Mode = "qualitative"
	ModeDummy       Mode = "dummy"
)

// Strategy tags how a mode turns a target into a rule.
type Strategy string

const (
	// StrategyNumericRange brackets the target from both sides.
	StrategyNumericRange Strategy = "numeric-range"
	// StrategyUpperBound accepts anything from zero up to an inflated target.
	StrategyUpperBound Strategy = "upper-bound"
	// StrategyQualitative binds a pass/fail phrase pair; targets are metadata only.
	StrategyQualitative Strategy = "qualitative"
	// StrategyNone reserves a parameter slot with no computed content.
	StrategyNone Strategy = "none"
)

// ErrUnknownMode is returned for mode tokens outside the registry.
var ErrUnknownMode = errors.New("unknown mode")

// registry is the closed set of modes. Adding a mode means one entry here
// plus a curve in the policy file when its strategy needs one.
var registry = map[Mode]Strategy{
	ModeActive:      StrategyNumericRange,
	ModeMineral:     StrategyNumericRange,
	ModeLimit:       StrategyUpperBound,
	ModeLimit2:      StrategyUpperBound,
	ModeLimit3:      StrategyUpperBound,
	ModeQualitative: StrategyQualitative,
	ModeDummy:       StrategyNone,
}

// Modes lists every registered mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeActive, ModeMineral, ModeLimit, ModeLimit2, ModeLimit3, ModeQualitative, ModeDummy}
}

// ParseMode trims and lowercases tok before looking it up.
func ParseMode(tok string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(tok)))
	if _, ok := registry[m]; !ok {
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownMode, tok, modeList())
	}
	return m, nil
}

// StrategyOf returns the strategy registered for m.
func StrategyOf(m Mode) (Strategy, error) {
	s, ok := registry[m]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownMode, string(m))
	}
	return s, nil
}

// NeedsCurve reports whether the strategy reads a tolerance curve.
func (s Strategy) NeedsCurve() bool {
	return s == StrategyNumericRange || s == StrategyUpperBound
}

func modeList() string {
	ms := Modes()
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
