// internal/clibase/common.go
package clibase

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Common holds CLI fields shared by rulegen and rulerange.
type Common struct {
	PolicyPath string // empty: QCRULES_POLICY, then the embedded table
	LogLevel   string // empty: QCRULES_LOG_LEVEL, then info

	Quiet    bool
	Version  bool
	Help     bool
	Examples bool
}

// LogLevels accepted by --log-level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Register wires the shared flags onto fs.
func Register(fs *pflag.FlagSet, c *Common) {
	fs.StringVar(&c.PolicyPath, "policy", "", "tolerance policy YAML (default: embedded)")
	fs.StringVar(&c.LogLevel, "log-level", "", "log level: "+strings.Join(LogLevels, " | ")+" [info]")
	fs.BoolVarP(&c.Quiet, "quiet", "q", false, "only log errors [false]")
	fs.BoolVarP(&c.Version, "version", "v", false, "print version and exit")
	fs.BoolVarP(&c.Help, "help", "h", false, "show this help and exit")
	fs.BoolVar(&c.Examples, "examples", false, "print quickstart examples and exit")
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	if c.LogLevel == "" {
		return nil
	}
	for _, l := range LogLevels {
		if strings.EqualFold(c.LogLevel, l) {
			return nil
		}
	}
	return fmt.Errorf("invalid --log-level %q (want %s)", c.LogLevel, strings.Join(LogLevels, " | "))
}
