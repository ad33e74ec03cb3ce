// internal/patchapp/patchapp.go
package patchapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qcrules/internal/app"
	"qcrules/internal/clibase"
	"qcrules/internal/config"
	"qcrules/internal/logging"
	"qcrules/internal/patch"
	"qcrules/internal/version"
)

const name = "rulepatch"

// exitError carries a specific exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func ioErr(err error) error { return &exitError{code: app.ExitIO, err: err} }

// shared holds what every subcommand sees after the root's pre-run.
type shared struct {
	common clibase.Common
	stdout io.Writer
	log    *zap.Logger
}

// target flags shared by the subcommands.
type target struct {
	out     string
	inplace bool
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	sh := &shared{stdout: stdout, log: zap.NewNop()}
	root := rootCmd(sh, stderr)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	_ = sh.log.Sync()
	if err == nil {
		return app.ExitOK
	}
	_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return app.ExitIO
	}
	return app.ExitUsage
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func rootCmd(sh *shared, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "Patch fields of generated QC rule documents",
		Long: `rulepatch edits rule documents written by rulegen, in either the
document or the LIMS import layout, without regenerating them.

Inputs may be globs ("rules/**/*.json"). Each patched file is written
beside its input as <stem>_<label>.json unless --out or --inplace is given.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Resolve(sh.common, os.LookupEnv, config.DefaultDotenv)
			if err != nil {
				return err
			}
			log, err := logging.New(stderr, name, settings.LogLevel, sh.common.Quiet)
			if err != nil {
				return err
			}
			sh.log = log
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&sh.common.LogLevel, "log-level", "", "log level: "+strings.Join(clibase.LogLevels, " | ")+" [info]")
	pf.BoolVarP(&sh.common.Quiet, "quiet", "q", false, "only log errors")

	cmd.AddCommand(specIDCmd(sh), unitCmd(sh), keyCmd(sh), removeCmd(sh))
	return cmd
}

func addTargetFlags(cmd *cobra.Command, t *target) {
	cmd.Flags().StringVarP(&t.out, "out", "o", "", "output path ('-' for stdout)")
	cmd.Flags().BoolVar(&t.inplace, "inplace", false, "overwrite each input")
	cmd.MarkFlagsMutuallyExclusive("out", "inplace")
}

func specIDCmd(sh *shared) *cobra.Command {
	var (
		t  target
		id int
	)
	cmd := &cobra.Command{
		Use:   "spec-id FILE...",
		Short: "Set the spec id; with --out and several inputs, merge them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id <= 0 {
				return fmt.Errorf("--spec-id must be a positive integer, got %d", id)
			}
			edit := func(d *patch.Doc) (int, error) { return d.SetSpecID(id) }
			return sh.apply(args, t, "spec"+strconv.Itoa(id), true, edit)
		},
	}
	cmd.Flags().IntVar(&id, "spec-id", 0, "new spec id")
	_ = cmd.MarkFlagRequired("spec-id")
	addTargetFlags(cmd, &t)
	return cmd
}

func unitCmd(sh *shared) *cobra.Command {
	var (
		t           target
		unit        string
		clearUnit   bool
		onlyMissing bool
		ids         []int
	)
	cmd := &cobra.Command{
		Use:   "unit FILE...",
		Short: "Set or clear the unit of every (or selected) parameter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u *string
			label := "unit_null"
			if !clearUnit {
				u = &unit
				label = "unit_" + patch.SafeLabel(unit)
			}
			f := patch.Filter{IDs: ids, OnlyMissing: onlyMissing}
			edit := func(d *patch.Doc) (int, error) { return d.SetUnit(u, f) }
			return sh.apply(args, t, label, false, edit)
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "new unit")
	cmd.Flags().BoolVar(&clearUnit, "clear", false, "set the unit to null")
	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "only touch parameters without a unit")
	cmd.Flags().IntSliceVar(&ids, "param-id", nil, "restrict to these parameter ids")
	cmd.MarkFlagsMutuallyExclusive("unit", "clear")
	cmd.MarkFlagsOneRequired("unit", "clear")
	addTargetFlags(cmd, &t)
	return cmd
}

func keyCmd(sh *shared) *cobra.Command {
	var (
		t           target
		key, raw    string
		kind        string
		onlyMissing bool
		ids         []int
	)
	cmd := &cobra.Command{
		Use:   "key FILE...",
		Short: "Set any key (dot path, relative to each parameter item)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("value") && !strings.EqualFold(kind, "null") {
				return errors.New(`--value is required unless --as null`)
			}
			v, err := patch.ParseValue(raw, kind)
			if err != nil {
				return fmt.Errorf("--value: %w", err)
			}
			label := strings.ReplaceAll(key, ".", "_") + "_" + patch.SafeLabel(raw)
			if raw == "" {
				label += "null"
			}
			f := patch.Filter{IDs: ids, OnlyMissing: onlyMissing}
			edit := func(d *patch.Doc) (int, error) { return d.SetKey(key, v, f) }
			return sh.apply(args, t, label, false, edit)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "dot path, e.g. data.spec_id or unit")
	cmd.Flags().StringVar(&raw, "value", "", "new value, read as --as says")
	cmd.Flags().StringVar(&kind, "as", "auto", "value type: "+strings.Join(patch.ValueKinds, " | "))
	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "only set where the key is absent, null or empty")
	cmd.Flags().IntSliceVar(&ids, "param-id", nil, "restrict to these parameter ids")
	_ = cmd.MarkFlagRequired("key")
	addTargetFlags(cmd, &t)
	return cmd
}

func removeCmd(sh *shared) *cobra.Command {
	var (
		t   target
		ids []int
	)
	cmd := &cobra.Command{
		Use:   "remove FILE...",
		Short: "Drop every rule of the given parameter ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = strconv.Itoa(id)
			}
			edit := func(d *patch.Doc) (int, error) { return d.Remove(ids) }
			return sh.apply(args, t, "without_"+strings.Join(parts, "_"), false, edit)
		},
	}
	cmd.Flags().IntSliceVar(&ids, "param-id", nil, "parameter ids to remove")
	_ = cmd.MarkFlagRequired("param-id")
	addTargetFlags(cmd, &t)
	return cmd
}
