// internal/engine/qualitative.go
package engine

import (
	"fmt"
	"strings"
)

// BindQualitative builds an outcome from a pass/fail phrase pair. Both
// phrases must be non-blank; they are kept verbatim.
func BindQualitative(pass, fail string) (QualitativeOutcome, error) {
	switch {
	case strings.TrimSpace(pass) == "" && strings.TrimSpace(fail) == "":
		return QualitativeOutcome{}, fmt.Errorf("%w: pass and fail text are empty", ErrMissingQualitativeText)
	case strings.TrimSpace(pass) == "":
		return QualitativeOutcome{}, fmt.Errorf("%w: pass text is empty", ErrMissingQualitativeText)
	case strings.TrimSpace(fail) == "":
		return QualitativeOutcome{}, fmt.Errorf("%w: fail text is empty", ErrMissingQualitativeText)
	}
	return QualitativeOutcome{PassText: pass, FailText: fail}, nil
}
