// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"qcrules/internal/appshell"
	"qcrules/internal/cli"
	"qcrules/internal/clibase"
	"qcrules/internal/config"
	"qcrules/internal/engine"
	"qcrules/internal/logging"
	"qcrules/internal/output"
	"qcrules/internal/paramfile"
	"qcrules/internal/policy"
	"qcrules/internal/version"
	"qcrules/internal/writers"
)

const name = "rulegen"

// Exit codes shared by the tools.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = appshell.ExitCanceled
)

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	flags := cli.NewFlagSet(name, outw)
	opts, err := cli.ParseArgs(flags, argv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) || errors.Is(err, clibase.ErrPrintedAndExitOK) {
			return Finish(outw, stderr, ExitOK)
		}
		_, _ = fmt.Fprintf(stderr, "%s: %v\nRun '%s --help' for usage.\n", name, err, name)
		return ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return Finish(outw, stderr, ExitOK)
	}

	settings, err := config.Resolve(opts.Common, os.LookupEnv, config.DefaultDotenv)
	if err != nil {
		return Fail(stderr, name, err)
	}
	log, err := logging.New(stderr, name, settings.LogLevel, opts.Quiet)
	if err != nil {
		return Fail(stderr, name, err)
	}
	defer func() { _ = log.Sync() }()

	table, source, err := policy.LoadOrDefault(settings.PolicyPath)
	if err != nil {
		return Fail(stderr, name, err)
	}
	log.Debug("policy loaded", zap.String("source", source), zap.String("via", settings.PolicySource))

	specs, err := collectSpecs(opts)
	if err != nil {
		return Fail(stderr, name, err)
	}

	quals := opts.Quals
	if len(quals) > 0 && !engine.HasQualitative(specs) {
		log.Warn("--qual given but no parameter is qualitative; ignoring", zap.Int("pairs", len(quals)))
		quals = nil
	}

	eng := engine.New(engine.Config{Policy: table})
	rules, err := eng.BuildAll(specs, quals)
	if err != nil {
		return Fail(stderr, name, err)
	}
	doc := engine.Assemble(opts.SpecID, rules)

	if err := ctx.Err(); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitCanceled
	}
	// --format was checked against the registry by ParseArgs.
	if err := writers.Publish(opts.Out, stdout, func(w io.Writer) error {
		return writers.Write(opts.Format, w, doc)
	}); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitIO
	}

	bands := 0
	for _, r := range doc.Parameters {
		n := output.BandCount(r)
		bands += n
		log.Info("param",
			zap.Int("id", r.Spec.ParameterID),
			zap.String("mode", string(r.Spec.Mode)),
			zap.String("rule", output.Summary(r)),
			zap.Int("import_rules", n))
	}
	log.Info("wrote rules",
		zap.String("out", opts.Out),
		zap.String("format", opts.Format),
		zap.Int("spec_id", doc.SpecID),
		zap.Int("parameters", len(doc.Parameters)),
		zap.Int("import_rules", bands))
	return ExitOK
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// collectSpecs parses parameter-table rows first, then --param entries,
// numbering them in that order.
func collectSpecs(opts cli.Options) ([]engine.ParameterSpec, error) {
	var specs []engine.ParameterSpec
	if opts.ParamsFile != "" {
		rows, err := paramfile.Read(opts.ParamsFile)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			s, err := engine.ParseEntry(len(specs)+1, row.Fields)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", opts.ParamsFile, row.Line, err)
			}
			specs = append(specs, s)
		}
	}
	for _, fields := range opts.Params {
		s, err := engine.ParseEntry(len(specs)+1, fields)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Finish flushes buffered stdout and returns code, or ExitIO if the flush
// failed for a reason other than a closed pipe.
func Finish(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitIO
	}
	return code
}

// Fail prints err and maps it to an exit code: file system errors are
// I/O failures, everything else is a usage or validation error.
func Fail(stderr io.Writer, tool string, err error) int {
	_, _ = fmt.Fprintf(stderr, "%s: %v\n", tool, err)
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return ExitIO
	}
	return ExitUsage
}
