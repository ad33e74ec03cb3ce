// internal/rangecli/options_test.go
package rangecli

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcrules/internal/engine"
	"qcrules/internal/policy"
)

func parse(args ...string) (Options, error) {
	fs := pflag.NewFlagSet("rulerange", pflag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	return ParseArgs(fs, args)
}

func TestParse(t *testing.T) {
	o, err := parse("--target", "0,5", "--mode", "LIMIT3", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, 0.5, o.Target)
	assert.Equal(t, policy.ModeLimit3, o.Mode)
	assert.Equal(t, OutputJSON, o.Output)

	o, err = parse("-t", "3", "-m", "active", "-o", "tsv")
	require.NoError(t, err)
	assert.Equal(t, OutputTSV, o.Output)
}

func TestParseErrors(t *testing.T) {
	_, err := parse("--mode", "active")
	assert.ErrorContains(t, err, "--target is required")

	_, err = parse("--target", "null", "--mode", "active")
	assert.ErrorIs(t, err, engine.ErrInvalidTarget)

	_, err = parse("--target", "abc", "--mode", "active")
	assert.ErrorIs(t, err, engine.ErrInvalidTarget)

	_, err = parse("--target", "1", "--mode", "potency")
	assert.ErrorIs(t, err, engine.ErrUnknownMode)

	_, err = parse("--target", "1", "--mode", "dummy")
	assert.ErrorContains(t, err, "has no numeric range")

	_, err = parse("--target", "1", "--mode", "active", "--output", "xml")
	assert.ErrorContains(t, err, "invalid --output")
}
