// internal/output/document.go
package output

import (
	"io"

	"qcrules/internal/engine"
	"qcrules/internal/jsonlutil"
	"qcrules/internal/jsonutil"
	"qcrules/pkg/api"
)

// ToAPIDocument converts a domain RuleDocument to the stable wire schema (v1).
func ToAPIDocument(doc engine.RuleDocument) api.DocumentV1 {
	out := api.DocumentV1{
		SpecID:     doc.SpecID,
		Parameters: make([]api.ParameterV1, 0, len(doc.Parameters)),
	}
	for _, r := range doc.Parameters {
		out.Parameters = append(out.Parameters, toAPIParameter(r))
	}
	return out
}

func toAPIParameter(r engine.ParameterRule) api.ParameterV1 {
	p := api.ParameterV1{
		ParameterID: r.Spec.ParameterID,
		Mode:        string(r.Spec.Mode),
		Target:      r.Spec.Target,
		Unit:        r.Spec.Unit,
		Range:       toAPIRange(r.Range),
		Preferred:   toAPIRange(r.Preferred),
	}
	if q := r.Qualitative; q != nil {
		p.Qualitative = &api.QualitativeV1{Pass: q.PassText, Fail: q.FailText}
	}
	return p
}

func toAPIRange(r *engine.ToleranceRange) *api.RangeV1 {
	if r == nil {
		return nil
	}
	return &api.RangeV1{Low: r.Low, High: r.High}
}

// WriteDocument writes doc as pretty-indented v1 JSON.
func WriteDocument(w io.Writer, doc engine.RuleDocument) error {
	return jsonutil.EncodePretty(w, ToAPIDocument(doc))
}

// WriteJSONL writes one compact line per parameter rule, each carrying
// the spec id.
func WriteJSONL(w io.Writer, doc engine.RuleDocument) error {
	return jsonlutil.Write(w, doc.Parameters, func(r engine.ParameterRule) api.ParameterLineV1 {
		return api.ParameterLineV1{SpecID: doc.SpecID, ParameterV1: toAPIParameter(r)}
	})
}
