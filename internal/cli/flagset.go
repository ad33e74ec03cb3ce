// internal/cli/flagset.go
package cli

import (
	"io"

	"github.com/spf13/pflag"
)

// NewFlagSet returns a FlagSet that reports errors instead of exiting.
// Usage goes to out once ParseArgs installs it.
func NewFlagSet(name string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(out)
	fs.Usage = func() {}
	return fs
}
