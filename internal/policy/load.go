// internal/policy/load.go
package policy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicy []byte

// Default returns the embedded policy table.
func Default() Table {
	t, err := Parse(bytes.NewReader(defaultPolicy))
	if err != nil {
		panic("policy: embedded default is invalid: " + err.Error())
	}
	return t
}

// Parse decodes and validates a policy table. Unknown keys are rejected so
// a misspelt factor cannot silently fall back to zero.
func Parse(r io.Reader) (Table, error) {
	t := Table{Precision: DefaultPrecision}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, errors.New("policy: empty document")
		}
		return Table{}, fmt.Errorf("policy: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Load reads a policy table from path.
func Load(path string) (Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer func() { _ = fh.Close() }()

	t, err := Parse(fh)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadOrDefault loads path, or returns the embedded table when path is empty.
// The second result names where the table came from.
func LoadOrDefault(path string) (Table, string, error) {
	if path == "" {
		return Default(), "embedded", nil
	}
	t, err := Load(path)
	return t, path, err
}
