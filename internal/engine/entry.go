// internal/engine/entry.go
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"qcrules/internal/policy"
)

// EntryArity is the number of fields in one parameter entry:
// parameter_id, target, unit, mode.
const EntryArity = 4

// ParseEntry validates the raw fields of one parameter entry. index is the
// entry's 1-based position and is carried into any error.
func ParseEntry(index int, fields []string) (ParameterSpec, error) {
	if len(fields) != EntryArity {
		return ParameterSpec{}, &ParamError{Index: index, Err: fmt.Errorf(
			"%w: want %d fields (parameter_id target unit mode), got %d", ErrMalformedParameterEntry, EntryArity, len(fields))}
	}
	idTok := strings.TrimSpace(fields[0])
	pid, err := strconv.Atoi(idTok)
	if err != nil || pid <= 0 {
		return ParameterSpec{}, &ParamError{Index: index, Err: fmt.Errorf(
			"%w: parameter id %q must be a positive integer", ErrMalformedParameterEntry, fields[0])}
	}

	fail := func(err error) (ParameterSpec, error) {
		return ParameterSpec{}, &ParamError{Index: index, ParameterID: idTok, Err: err}
	}
	target, err := ParseTarget(fields[1])
	if err != nil {
		return fail(err)
	}
	mode, err := policy.ParseMode(fields[3])
	if err != nil {
		return fail(err)
	}
	return ParameterSpec{
		Index:       index,
		ParameterID: pid,
		Target:      target,
		Unit:        parseNullable(fields[2]),
		Mode:        mode,
	}, nil
}

// ParseTarget accepts a number (decimal comma allowed) or null.
func ParseTarget(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidTarget, raw)
	}
	return &v, nil
}

func parseNullable(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}
