// internal/cliutil/cliutil.go
package cliutil

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Tuple is one occurrence of a multi-value flag. Index is 1-based and
// counts occurrences of Flag only.
type Tuple struct {
	Flag   string
	Index  int
	Values []string
}

// ArityError reports a multi-value flag followed by too few values.
type ArityError struct {
	Flag      string
	Index     int
	Want, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("--%s #%d: want %d values, got %d", e.Flag, e.Index, e.Want, e.Got)
}

// CollectTuples pulls every occurrence of the multi-value flags named in
// arity (name → value count) out of argv, in order. Everything else is
// returned untouched in rest for the regular flag parser. Inside a tuple
// every token is a value ("-Inf", "-2", "-negativ") unless it starts with
// "--", which ends the tuple early. Scanning stops at "--".
func CollectTuples(argv []string, arity map[string]int) (tuples []Tuple, rest []string, err error) {
	seen := map[string]int{}
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			rest = append(rest, argv[i:]...)
			break
		}
		name, isTuple := tupleFlag(arg, arity)
		if !isTuple {
			rest = append(rest, arg)
			continue
		}
		if strings.Contains(arg, "=") {
			return nil, nil, fmt.Errorf("--%s takes %d separate values, not --%s=VALUE", name, arity[name], name)
		}
		seen[name]++
		want := arity[name]
		vals := make([]string, 0, want)
		for len(vals) < want && i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "--") {
			i++
			vals = append(vals, argv[i])
		}
		if len(vals) < want {
			return nil, nil, &ArityError{Flag: name, Index: seen[name], Want: want, Got: len(vals)}
		}
		tuples = append(tuples, Tuple{Flag: name, Index: seen[name], Values: vals})
	}
	return tuples, rest, nil
}

func tupleFlag(arg string, arity map[string]int) (string, bool) {
	if !strings.HasPrefix(arg, "--") {
		return "", false
	}
	name := strings.TrimPrefix(arg, "--")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		name = name[:eq]
	}
	_, ok := arity[name]
	return name, ok
}

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[{") }

// ExpandPositionals expands any globs among path-like positionals.
// Patterns follow doublestar, so "**" crosses directories.
func ExpandPositionals(posArgs []string) ([]string, error) {
	var out []string
	for _, a := range posArgs {
		if a == "-" || !hasGlobMeta(a) {
			out = append(out, a)
			continue
		}
		m, err := doublestar.FilepathGlob(a)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %v", a, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("no input matched %q", a)
		}
		out = append(out, m...)
	}
	return out, nil
}
