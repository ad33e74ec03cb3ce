// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strconv"

	"qcrules/internal/engine"
)

// WriteText prints a header and one summary line per parameter.
func WriteText(w io.Writer, doc engine.RuleDocument) error {
	if _, err := fmt.Fprintf(w, "spec %d: %d parameters\n", doc.SpecID, len(doc.Parameters)); err != nil {
		return err
	}
	for _, r := range doc.Parameters {
		if _, err := fmt.Fprintf(w, "  param %d (%s) -> %s\n", r.Spec.ParameterID, r.Spec.Mode, Summary(r)); err != nil {
			return err
		}
	}
	return nil
}

// Summary describes what a rule checks, in one line.
func Summary(r engine.ParameterRule) string {
	switch {
	case r.Qualitative != nil:
		return fmt.Sprintf("pass %q, fail %q", r.Qualitative.PassText, r.Qualitative.FailText)
	case r.Range != nil:
		s := "range " + FormatRange(*r.Range)
		if r.Preferred != nil {
			s += " preferred " + FormatRange(*r.Preferred)
		}
		if r.Spec.Unit != nil {
			s += " " + *r.Spec.Unit
		}
		return s
	}
	return "no rule content"
}

// FormatRange renders [low, high] with the shortest exact decimals.
func FormatRange(r engine.ToleranceRange) string {
	return "[" + formatFloat(r.Low) + ", " + formatFloat(r.High) + "]"
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
