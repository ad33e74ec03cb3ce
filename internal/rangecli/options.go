// internal/rangecli/options.go
package rangecli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"qcrules/internal/clibase"
	"qcrules/internal/engine"
	"qcrules/internal/policy"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputTSV  = "tsv"
)

// Options holds all rulerange flags.
type Options struct {
	clibase.Common

	Target float64
	Mode   policy.Mode
	Output string
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var targetRaw, modeRaw string

	fs.StringVarP(&targetRaw, "target", "t", "", "target value (decimal comma allowed) [*]")
	fs.StringVarP(&modeRaw, "mode", "m", "", "evaluation mode with a numeric range [*]")
	fs.StringVarP(&opt.Output, "output", "o", OutputText, "output: text | json | tsv [text]")
	clibase.Register(fs, &opt.Common)
	clibase.UsageCommon(fs, fs.Name(), "tolerance band preview", usageRulerange(fs.Name()))

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if opt.Help {
		fs.Usage()
		return opt, pflag.ErrHelp
	}
	if opt.Examples {
		clibase.PrintExamples(fs.Output(), fs.Name(), func(out io.Writer) {
			fmt.Fprintf(out, "  %s --target 12 --mode active\n", fs.Name())
			fmt.Fprintf(out, "  %s --target 0,5 --mode limit3 --output json\n", fs.Name())
		})
		return opt, clibase.ErrPrintedAndExitOK
	}
	if opt.Version {
		return opt, nil
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	if targetRaw == "" {
		return opt, errors.New("--target is required")
	}
	t, err := engine.ParseTarget(targetRaw)
	if err != nil {
		return opt, err
	}
	if t == nil {
		return opt, fmt.Errorf("%w: --target must be a number", engine.ErrInvalidTarget)
	}
	opt.Target = *t

	if modeRaw == "" {
		return opt, errors.New("--mode is required")
	}
	if opt.Mode, err = policy.ParseMode(modeRaw); err != nil {
		return opt, err
	}
	if s, _ := policy.StrategyOf(opt.Mode); !s.NeedsCurve() {
		return opt, fmt.Errorf("mode %s has no numeric range", opt.Mode)
	}

	switch opt.Output {
	case OutputText, OutputJSON, OutputTSV:
	default:
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, clibase.Validate(&opt.Common)
}

func usageRulerange(name string) func(io.Writer) {
	return func(out io.Writer) {
		fmt.Fprintf(out, "Usage:\n  %s --target NUMBER --mode MODE [--output text|json|tsv]\n", name)
		fmt.Fprintln(out, "\nBand:")
		fmt.Fprintln(out, "  -t, --target number         Target value [*]")
		fmt.Fprintln(out, "  -m, --mode string           active | mineral | limit | limit2 | limit3 [*]")
		fmt.Fprintln(out, "  -o, --output string         text | json | tsv [text]")
	}
}
