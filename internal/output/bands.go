// internal/output/bands.go
package output

import (
	"fmt"
	"io"
	"strconv"

	"qcrules/internal/engine"
	"qcrules/internal/jsonutil"
	"qcrules/internal/policy"
	"qcrules/pkg/api"
)

// ToAPIBands converts one band computation for the rulerange JSON output.
func ToAPIBands(target float64, mode policy.Mode, b engine.Bands) api.BandsV1 {
	return api.BandsV1{
		Mode:      string(mode),
		Target:    target,
		Accept:    api.RangeV1{Low: b.Accept.Low, High: b.Accept.High},
		Preferred: toAPIRange(b.Preferred),
	}
}

func WriteBandsJSON(w io.Writer, target float64, mode policy.Mode, b engine.Bands) error {
	return jsonutil.EncodePretty(w, ToAPIBands(target, mode, b))
}

// WriteBandsText prints the labelled bands of the range calculator
// sheet, with prec decimals:
//
//	perfect_range: 10.80 - 15.00
//	okay_range: 9.60 - 10.80
//	okay_range_2: 15.00 - 18.00
//	not_okay_range: <9.60 OR >18.00
//
// Upper-bound modes print "<= x" / "> x" forms; a zero range prints only
// "perfect_range: 0" and "not_okay_range: > 0".
func WriteBandsText(w io.Writer, mode policy.Mode, b engine.Bands, prec int) error {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', prec, 64) }
	acc, pref := b.Accept, b.Preferred
	strat, _ := policy.StrategyOf(mode)

	var lines []string
	switch {
	case acc.High == 0:
		lines = []string{
			"perfect_range: " + f(0),
			"not_okay_range: > " + f(0),
		}
	case strat == policy.StrategyUpperBound && pref != nil:
		lines = []string{
			"perfect_range: <= " + f(pref.High),
			"okay_range: " + f(pref.High) + " - " + f(acc.High),
			"not_okay_range: > " + f(acc.High),
		}
	case strat == policy.StrategyUpperBound:
		lines = []string{
			"perfect_range: <= " + f(acc.High),
			"not_okay_range: > " + f(acc.High),
		}
	case pref != nil:
		lines = []string{
			"perfect_range: " + f(pref.Low) + " - " + f(pref.High),
			"okay_range: " + f(acc.Low) + " - " + f(pref.Low),
			"okay_range_2: " + f(pref.High) + " - " + f(acc.High),
			"not_okay_range: <" + f(acc.Low) + " OR >" + f(acc.High),
		}
	default:
		lines = []string{
			"perfect_range: " + f(acc.Low) + " - " + f(acc.High),
			"not_okay_range: <" + f(acc.Low) + " OR >" + f(acc.High),
		}
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteBandsTSV prints "mode\ttarget\tlow\thigh[\tpref_low\tpref_high]"
// for scripts.
func WriteBandsTSV(w io.Writer, target float64, mode policy.Mode, b engine.Bands) error {
	line := fmt.Sprintf("%s\t%s\t%s\t%s", mode, formatFloat(target), formatFloat(b.Accept.Low), formatFloat(b.Accept.High))
	if b.Preferred != nil {
		line += "\t" + formatFloat(b.Preferred.Low) + "\t" + formatFloat(b.Preferred.High)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
