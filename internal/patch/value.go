// internal/patch/value.go
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Value is an encoded JSON literal.
type Value []byte

// Null is the JSON null literal.
var Null = Value("null")

// ValueKinds accepted by ParseValue.
var ValueKinds = []string{"auto", "str", "int", "float", "bool", "null", "json"}

var intLike = regexp.MustCompile(`^[+-]?[0-9]+$`)

// ParseValue interprets raw according to kind. "auto" tries null, bool,
// int and float before falling back to a string.
func ParseValue(raw, kind string) (Value, error) {
	switch strings.ToLower(kind) {
	case "str":
		return String(raw), nil
	case "int":
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an int: %q", raw)
		}
		return Value(strconv.FormatInt(n, 10)), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("not a finite float: %q", raw)
		}
		return Float(f), nil
	case "bool":
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes", "y", "on":
			return Value("true"), nil
		case "false", "0", "no", "n", "off":
			return Value("false"), nil
		}
		return nil, fmt.Errorf("not a bool: %q", raw)
	case "null":
		return Null, nil
	case "json":
		s := strings.TrimSpace(raw)
		if !gjson.Valid(s) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidJSON, raw)
		}
		return Value(s), nil
	case "auto", "":
		return autoValue(raw), nil
	}
	return nil, fmt.Errorf("unknown value kind %q (want %s)", kind, strings.Join(ValueKinds, " | "))
}

func autoValue(raw string) Value {
	low := strings.ToLower(strings.TrimSpace(raw))
	switch low {
	case "", "null":
		return Null
	case "true", "false":
		return Value(low)
	}
	if intLike.MatchString(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Value(strconv.FormatInt(n, 10))
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Float(f)
	}
	return String(raw)
}

// String encodes s without HTML escaping.
func String(s string) Value {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return Value(bytes.TrimRight(buf.Bytes(), "\n"))
}

func Float(f float64) Value { return Value(strconv.FormatFloat(f, 'f', -1, 64)) }

func Int(n int) Value { return Value(strconv.Itoa(n)) }
