// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"qcrules/internal/clibase"
	"qcrules/internal/cliutil"
	"qcrules/internal/engine"
	"qcrules/internal/writers"
)

// Multi-value flags and the number of values each occurrence takes.
const (
	FlagParam = "param"
	FlagQual  = "qual"
)

var tupleArity = map[string]int{FlagParam: engine.EntryArity, FlagQual: 2}

// Options holds all rulegen flags.
type Options struct {
	clibase.Common

	SpecID     int
	Params     [][]string // raw --param tuples, in order
	Quals      []engine.QualitativeOutcome
	ParamsFile string
	Out        string
	Format     string
}

// ParseArgs groups the multi-value flags, parses the rest with fs and
// validates the result. --help and --examples print to fs.Output() and
// return pflag.ErrHelp and clibase.ErrPrintedAndExitOK respectively.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Options, error) {
	var opt Options

	tuples, rest, err := cliutil.CollectTuples(argv, tupleArity)
	if err != nil {
		return opt, tupleError(err)
	}
	for _, tp := range tuples {
		switch tp.Flag {
		case FlagParam:
			opt.Params = append(opt.Params, tp.Values)
		case FlagQual:
			opt.Quals = append(opt.Quals, engine.QualitativeOutcome{PassText: tp.Values[0], FailText: tp.Values[1]})
		}
	}

	fs.IntVar(&opt.SpecID, "spec-id", 0, "specification id the rules belong to [*]")
	fs.StringVar(&opt.ParamsFile, "params-file", "", "parameter table (.csv, .tsv, .xlsx)")
	fs.StringVar(&opt.Out, "out", "", "output path, '-' for stdout [*]")
	fs.StringVarP(&opt.Format, "format", "f", writers.DefaultFormat, "output format")
	clibase.Register(fs, &opt.Common)
	clibase.UsageCommon(fs, fs.Name(), "QC rule generation", usageRulegen(fs.Name()))

	if err := fs.Parse(rest); err != nil {
		return opt, err
	}
	if opt.Help {
		fs.Usage()
		return opt, pflag.ErrHelp
	}
	if opt.Examples {
		clibase.PrintExamples(fs.Output(), fs.Name(), examplesRulegen(fs.Name()))
		return opt, clibase.ErrPrintedAndExitOK
	}
	if opt.Version {
		return opt, nil
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	switch {
	case !fs.Changed("spec-id"):
		return opt, errors.New("--spec-id is required")
	case opt.SpecID <= 0:
		return opt, fmt.Errorf("--spec-id must be a positive integer, got %d", opt.SpecID)
	case opt.Out == "":
		return opt, errors.New("--out is required (use '-' for stdout)")
	case len(opt.Params) == 0 && opt.ParamsFile == "":
		return opt, errors.New("at least one --param or --params-file is required")
	}
	if _, err := writers.Lookup(opt.Format); err != nil {
		return opt, fmt.Errorf("invalid --format: %w", err)
	}
	return opt, clibase.Validate(&opt.Common)
}

// tupleError maps a short --param to a malformed entry for that position,
// and a short --qual to missing qualitative text.
func tupleError(err error) error {
	var ae *cliutil.ArityError
	if !errors.As(err, &ae) {
		return err
	}
	switch ae.Flag {
	case FlagParam:
		return &engine.ParamError{Index: ae.Index, Err: fmt.Errorf(
			"%w: --param needs parameter_id target unit mode, got %d values", engine.ErrMalformedParameterEntry, ae.Got)}
	case FlagQual:
		return fmt.Errorf("%w: --qual #%d needs PASS FAIL, got %d values", engine.ErrMissingQualitativeText, ae.Index, ae.Got)
	}
	return err
}

func usageRulegen(name string) func(io.Writer) {
	return func(out io.Writer) {
		fmt.Fprintf(out, "Usage:\n  %s --spec-id N --param ID TARGET UNIT MODE [--param ...] [--qual PASS FAIL] --out PATH\n", name)
		fmt.Fprintln(out, "\nRules:")
		fmt.Fprintln(out, "      --spec-id int           Specification id the rules belong to [*]")
		fmt.Fprintln(out, "      --param ID TARGET UNIT MODE")
		fmt.Fprintln(out, "                              One parameter (repeatable, order kept); TARGET and UNIT accept null")
		fmt.Fprintln(out, "                              MODE: active | mineral | limit | limit2 | limit3 | qualitative | dummy")
		fmt.Fprintln(out, "      --qual PASS FAIL        Outcome text for qualitative params (one shared, or one per param)")
		fmt.Fprintln(out, "      --params-file file      Parameter table (.csv, .tsv, .xlsx); rows come before --param")
		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, "      --out path              Output file, '-' for stdout [*]")
		fmt.Fprintf(out, "  -f, --format string         %s [%s]\n", strings.Join(writers.Formats(), " | "), writers.DefaultFormat)
	}
}

func examplesRulegen(name string) func(io.Writer) {
	return func(out io.Writer) {
		fmt.Fprintf(out, "  # one active ingredient and one placeholder\n")
		fmt.Fprintf(out, "  %s --spec-id 1029 --param 5253 3 mg active --param 5587 null null dummy --out rules.json\n\n", name)
		fmt.Fprintf(out, "  # qualitative parameter\n")
		fmt.Fprintf(out, "  %s --spec-id 1029 --param 5369 0 mg/kg qualitative --qual \"not detectable\" \"nicht nachw.\" --out rules.json\n\n", name)
		fmt.Fprintf(out, "  # LIMS import layout from a spreadsheet\n")
		fmt.Fprintf(out, "  %s --spec-id 1029 --params-file params.xlsx --format import --out import.json\n", name)
	}
}
