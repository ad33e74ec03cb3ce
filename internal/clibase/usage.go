// internal/clibase/usage.go
package clibase

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"qcrules/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs. extra prints the
// tool-specific synopsis and flag blocks.
func UsageCommon(fs *pflag.FlagSet, name, tagline string, extra func(out io.Writer)) {
	fs.Usage = func() {
		out := fs.Output()

		fmt.Fprintf(out, "%s: %s\n", name, tagline)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out)
		}

		fmt.Fprintln(out, "\nPolicy & logging:")
		fmt.Fprintln(out, "      --policy file           Tolerance policy YAML [$QCRULES_POLICY, else embedded]")
		fmt.Fprintln(out, "      --log-level string      debug | info | warn | error [$QCRULES_LOG_LEVEL, else info]")
		fmt.Fprintln(out, "  -q, --quiet                 Only log errors")

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --examples              Print quickstart examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
