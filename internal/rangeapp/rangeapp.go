// internal/rangeapp/rangeapp.go
package rangeapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"qcrules/internal/app"
	"qcrules/internal/clibase"
	"qcrules/internal/config"
	"qcrules/internal/engine"
	"qcrules/internal/logging"
	"qcrules/internal/output"
	"qcrules/internal/policy"
	"qcrules/internal/rangecli"
	"qcrules/internal/version"
)

const name = "rulerange"

// RunContext prints the acceptance and preferred bands of one target.
func RunContext(_ context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SortFlags = false
	flags.SetOutput(outw)
	opts, err := rangecli.ParseArgs(flags, argv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) || errors.Is(err, clibase.ErrPrintedAndExitOK) {
			return app.Finish(outw, stderr, app.ExitOK)
		}
		_, _ = fmt.Fprintf(stderr, "%s: %v\nRun '%s --help' for usage.\n", name, err, name)
		return app.ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return app.Finish(outw, stderr, app.ExitOK)
	}

	settings, err := config.Resolve(opts.Common, os.LookupEnv, config.DefaultDotenv)
	if err != nil {
		return app.Fail(stderr, name, err)
	}
	log, err := logging.New(stderr, name, settings.LogLevel, opts.Quiet)
	if err != nil {
		return app.Fail(stderr, name, err)
	}
	defer func() { _ = log.Sync() }()

	table, source, err := policy.LoadOrDefault(settings.PolicyPath)
	if err != nil {
		return app.Fail(stderr, name, err)
	}
	log.Debug("policy loaded", zap.String("source", source))

	b, err := engine.New(engine.Config{Policy: table}).Bands(opts.Target, opts.Mode)
	if err != nil {
		return app.Fail(stderr, name, err)
	}

	switch opts.Output {
	case rangecli.OutputJSON:
		err = output.WriteBandsJSON(outw, opts.Target, opts.Mode, b)
	case rangecli.OutputTSV:
		err = output.WriteBandsTSV(outw, opts.Target, opts.Mode, b)
	default:
		err = output.WriteBandsText(outw, opts.Mode, b, table.Precision)
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return app.ExitIO
	}
	return app.Finish(outw, stderr, app.ExitOK)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
