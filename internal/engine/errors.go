// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"

	"qcrules/internal/policy"
)

var (
	ErrUnknownMode             = policy.ErrUnknownMode
	ErrInvalidTarget           = errors.New("invalid target")
	ErrMissingQualitativeText  = errors.New("missing qualitative text")
	ErrMalformedParameterEntry = errors.New("malformed parameter entry")
)

// ParamError ties a validation failure to the entry that caused it.
// ParameterID is the id token as given, empty if it never parsed.
type ParamError struct {
	Index       int
	ParameterID string
	Err         error
}

func (e *ParamError) Error() string {
	if e.ParameterID == "" {
		return fmt.Sprintf("param #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("param #%d (id %s): %v", e.Index, e.ParameterID, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

func specError(s ParameterSpec, err error) error {
	var pe *ParamError
	if errors.As(err, &pe) {
		return err
	}
	return &ParamError{Index: s.Index, ParameterID: fmt.Sprint(s.ParameterID), Err: err}
}
