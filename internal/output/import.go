// internal/output/import.go
package output

import (
	"io"

	"qcrules/internal/engine"
	"qcrules/internal/jsonutil"
	"qcrules/internal/policy"
	"qcrules/pkg/api"
)

// Band labels and colours of the import layout.
const (
	BandPerfect = "perfect"
	BandOK      = "OK"
	BandNotOK   = "not OK"

	colorPerfect = "green"
	colorOK      = "orange"
	colorNotOK   = "red"
)

// dummyValue is the literal the importer expects for "any non-empty result".
const dummyValue = `""`

type band struct {
	kind       string
	op, op2    string
	linker     string
	value      any
	value2     any
	noMetadata bool
}

// ToImport expands every rule of doc into its colour bands.
func ToImport(doc engine.RuleDocument) api.ImportV1 {
	out := api.ImportV1{Rules: []api.ImportRuleV1{}}
	for _, r := range doc.Parameters {
		for _, b := range bands(r) {
			out.Rules = append(out.Rules, api.ImportRuleV1{
				Action: "create",
				Data:   importData(doc.SpecID, r, b),
			})
		}
	}
	return out
}

// WriteImport writes doc in the LIMS import layout.
func WriteImport(w io.Writer, doc engine.RuleDocument) error {
	return jsonutil.EncodePretty(w, ToImport(doc))
}

// BandCount is the number of import rules r expands to.
func BandCount(r engine.ParameterRule) int { return len(bands(r)) }

// bands lists the import bands of r, perfect first and not OK last.
func bands(r engine.ParameterRule) []band {
	strat, err := policy.StrategyOf(r.Spec.Mode)
	if err != nil {
		return nil
	}
	switch strat {
	case policy.StrategyQualitative:
		if r.Qualitative == nil {
			return nil
		}
		// Both texts are accepted spellings of the same passing result.
		out := []band{{kind: BandPerfect, op: "=", op2: "=", linker: "OR",
			value: r.Qualitative.PassText, value2: r.Qualitative.FailText}}
		if t := r.Spec.Target; t != nil {
			out = append(out, band{kind: BandNotOK, op: ">", value: *t})
		}
		return out
	case policy.StrategyNone:
		return []band{{kind: BandPerfect, op: "!=", value: dummyValue, noMetadata: true}}
	}
	if r.Range == nil {
		return nil
	}
	acc, pref := *r.Range, r.Preferred
	if acc.High == 0 {
		return []band{
			{kind: BandPerfect, op: "<=", value: 0.0},
			{kind: BandNotOK, op: ">", value: 0.0},
		}
	}
	if strat == policy.StrategyUpperBound {
		if pref == nil {
			return []band{
				{kind: BandPerfect, op: "<=", value: acc.High},
				{kind: BandNotOK, op: ">", value: acc.High},
			}
		}
		return []band{
			{kind: BandPerfect, op: "<=", value: pref.High},
			{kind: BandOK, op: ">=", op2: "<=", linker: "AND", value: pref.High, value2: acc.High},
			{kind: BandNotOK, op: ">", value: acc.High},
		}
	}
	notOK := band{kind: BandNotOK, op: "<", op2: ">", linker: "OR", value: acc.Low, value2: acc.High}
	if pref == nil {
		return []band{
			{kind: BandPerfect, op: ">=", op2: "<=", linker: "AND", value: acc.Low, value2: acc.High},
			notOK,
		}
	}
	return []band{
		{kind: BandPerfect, op: ">=", op2: "<=", linker: "AND", value: pref.Low, value2: pref.High},
		{kind: BandOK, op: ">=", op2: "<", linker: "AND", value: acc.Low, value2: pref.Low},
		{kind: BandOK, op: ">", op2: "<=", linker: "AND", value: pref.High, value2: acc.High},
		notOK,
	}
}

func importData(specID int, r engine.ParameterRule, b band) api.ImportDataV1 {
	d := api.ImportDataV1{
		Color:           bandColor(b.kind),
		DDFTargetValue:  r.Spec.Target,
		DDFType:         b.kind,
		DDFUnit:         r.Spec.Unit,
		Linker:          optString(b.linker),
		Operator:        optString(b.op),
		Operator2:       optString(b.op2),
		ParameterTypeID: r.Spec.ParameterID,
		Show:            1,
		SpecID:          specID,
		Value:           b.value,
		Value2:          b.value2,
	}
	if b.noMetadata {
		d.DDFTargetValue, d.DDFUnit = nil, nil
	}
	return d
}

func bandColor(kind string) string {
	switch kind {
	case BandPerfect:
		return colorPerfect
	case BandOK:
		return colorOK
	}
	return colorNotOK
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
