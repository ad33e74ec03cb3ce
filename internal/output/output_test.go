// internal/output/output_test.go
package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcrules/internal/engine"
	"qcrules/internal/policy"
)

func f64(v float64) *float64 { return &v }
func strp(v string) *string { return &v }

func build(t *testing.T, quals []engine.QualitativeOutcome, entries ...[]string) []engine.ParameterRule {
	t.Helper()
	e := engine.New(engine.Config{Policy: policy.Default()})
	specs := make([]engine.ParameterSpec, 0, len(entries))
	for i, fields := range entries {
		s, err := engine.ParseEntry(i+1, fields)
		require.NoError(t, err)
		specs = append(specs, s)
	}
	rules, err := e.BuildAll(specs, quals)
	require.NoError(t, err)
	return rules
}

func TestWriteDocument_Golden(t *testing.T) {
	doc := engine.Assemble(1029, []engine.ParameterRule{
		{
			Spec:      engine.ParameterSpec{Index: 1, ParameterID: 5253, Target: f64(3), Unit: strp("mg"), Mode: policy.ModeActive},
			Range:     &engine.ToleranceRange{Low: 2.4, High: 4.5},
			Preferred: &engine.ToleranceRange{Low: 2.7, High: 3.75},
		},
		{Spec: engine.ParameterSpec{Index: 2, ParameterID: 5587, Mode: policy.ModeDummy}},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))

	want := `{
  "spec_id": 1029,
  "parameters": [
    {
      "parameter_id": 5253,
      "mode": "active",
      "target": 3,
      "unit": "mg",
      "range": {
        "low": 2.4,
        "high": 4.5
      },
      "preferred": {
        "low": 2.7,
        "high": 3.75
      }
    },
    {
      "parameter_id": 5587,
      "mode": "dummy",
      "target": null,
      "unit": null
    }
  ]
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteDocument_Qualitative(t *testing.T) {
	rules := build(t,
		[]engine.QualitativeOutcome{{PassText: "not detectable", FailText: "nicht nachw."}},
		[]string{"5369", "0", "mg/kg", "qualitative"})
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, engine.Assemble(7, rules)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	p := got["parameters"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"pass": "not detectable", "fail": "nicht nachw."}, p["qualitative"])
	assert.Equal(t, 0.0, p["target"])
	assert.Equal(t, "mg/kg", p["unit"])
	assert.NotContains(t, p, "range")
}

func TestWriteDocument_EmptyParametersIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, engine.Assemble(1, nil)))
	assert.Contains(t, buf.String(), `"parameters": []`)
}

func TestBandCount_MatchesImportLayout(t *testing.T) {
	qual := []engine.QualitativeOutcome{{PassText: "neg", FailText: "pos"}}
	cases := []struct {
		entry []string
		want  int
	}{
		{[]string{"1", "12", "mg", "active"}, 4},
		{[]string{"1", "0", "mg", "active"}, 2},
		{[]string{"1", "10", "mg", "mineral"}, 4},
		{[]string{"1", "0", "mg", "mineral"}, 2},
		{[]string{"1", "12", "mg", "limit3"}, 3},
		{[]string{"1", "0", "mg", "limit3"}, 2},
		{[]string{"1", "5", "mg", "limit"}, 3},
		{[]string{"1", "5", "mg", "limit2"}, 2},
		{[]string{"1", "0", "mg", "limit2"}, 2},
		{[]string{"1", "0", "mg/kg", "qualitative"}, 2},
		{[]string{"1", "null", "null", "qualitative"}, 1},
		{[]string{"1", "null", "null", "dummy"}, 1},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.entry, "_"), func(t *testing.T) {
			rules := build(t, qual, tc.entry)
			assert.Equal(t, tc.want, BandCount(rules[0]))
		})
	}
}

func TestToImport_ActiveBands(t *testing.T) {
	rules := build(t, nil, []string{"5253", "12", "mg", "active"})
	imp := ToImport(engine.Assemble(1029, rules))
	require.Len(t, imp.Rules, 4)

	perfect, okLow, okHigh, notOK := imp.Rules[0].Data, imp.Rules[1].Data, imp.Rules[2].Data, imp.Rules[3].Data
	assert.Equal(t, "create", imp.Rules[0].Action)
	assert.Equal(t, "green", perfect.Color)
	assert.Equal(t, BandPerfect, perfect.DDFType)
	assert.Equal(t, 10.8, perfect.Value)
	assert.Equal(t, 15.0, perfect.Value2)
	assert.Equal(t, "AND", *perfect.Linker)

	assert.Equal(t, "orange", okLow.Color)
	assert.Equal(t, 9.6, okLow.Value)
	assert.Equal(t, "<", *okLow.Operator2)
	assert.Equal(t, ">", *okHigh.Operator)
	assert.Equal(t, 18.0, okHigh.Value2)

	assert.Equal(t, "red", notOK.Color)
	assert.Equal(t, "OR", *notOK.Linker)
	assert.Equal(t, 1029, notOK.SpecID)
	assert.Equal(t, 5253, notOK.ParameterTypeID)
	assert.Equal(t, 12.0, *notOK.DDFTargetValue)
	assert.Equal(t, "mg", *notOK.DDFUnit)
}

func TestToImport_QualitativeBands(t *testing.T) {
	qual := []engine.QualitativeOutcome{{PassText: "not detectable", FailText: "nicht nachw."}}
	rules := build(t, qual,
		[]string{"5369", "0", "mg/kg", "qualitative"},
		[]string{"5370", "null", "null", "qualitative"})
	imp := ToImport(engine.Assemble(1029, rules))
	require.Len(t, imp.Rules, 3)

	perfect := imp.Rules[0].Data
	assert.Equal(t, BandPerfect, perfect.DDFType)
	assert.Equal(t, "green", perfect.Color)
	assert.Equal(t, "=", *perfect.Operator)
	assert.Equal(t, "=", *perfect.Operator2)
	assert.Equal(t, "OR", *perfect.Linker)
	assert.Equal(t, "not detectable", perfect.Value)
	assert.Equal(t, "nicht nachw.", perfect.Value2)
	assert.Equal(t, "mg/kg", *perfect.DDFUnit)

	notOK := imp.Rules[1].Data
	assert.Equal(t, BandNotOK, notOK.DDFType)
	assert.Equal(t, "red", notOK.Color)
	assert.Equal(t, ">", *notOK.Operator)
	assert.Nil(t, notOK.Operator2)
	assert.Nil(t, notOK.Linker)
	assert.Equal(t, 0.0, notOK.Value)
	assert.Nil(t, notOK.Value2)

	// no target: only the passing band
	noTarget := imp.Rules[2].Data
	assert.Equal(t, 5370, noTarget.ParameterTypeID)
	assert.Equal(t, BandPerfect, noTarget.DDFType)
	assert.Equal(t, "nicht nachw.", noTarget.Value2)
	for _, r := range imp.Rules {
		assert.NotEqual(t, "nicht nachw.", r.Data.Value, "second text never fails a result")
	}
}

func TestWriteImport_DummyAndEscaping(t *testing.T) {
	rules := build(t, nil,
		[]string{"5587", "null", "null", "dummy"},
		[]string{"10", "2", "mg/l", "limit2"})
	var buf bytes.Buffer
	require.NoError(t, WriteImport(&buf, engine.Assemble(3, rules)))
	out := buf.String()
	assert.Contains(t, out, `"operator": "<="`)
	assert.NotContains(t, out, `\u003c`)

	var got struct {
		Rules []struct {
			Data map[string]any `json:"data"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Rules, 3)
	dummy := got.Rules[0].Data
	assert.Equal(t, `""`, dummy["value"])
	assert.Equal(t, "!=", dummy["operator"])
	assert.Nil(t, dummy["DDF_target_value"])
	assert.Contains(t, dummy, "regex_filter", "unused keys stay present")
	assert.Equal(t, 2.0, got.Rules[1].Data["value"])
}

func TestWriteText(t *testing.T) {
	rules := build(t,
		[]engine.QualitativeOutcome{{PassText: "neg", FailText: "pos"}},
		[]string{"5253", "3", "mg", "active"},
		[]string{"5369", "null", "null", "qualitative"},
		[]string{"5587", "null", "null", "dummy"})
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, engine.Assemble(1029, rules)))
	want := "spec 1029: 3 parameters\n" +
		"  param 5253 (active) -> range [2.4, 4.5] preferred [2.7, 3.75] mg\n" +
		"  param 5369 (qualitative) -> pass \"neg\", fail \"pos\"\n" +
		"  param 5587 (dummy) -> no rule content\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteBands(t *testing.T) {
	e := engine.New(engine.Config{Policy: policy.Default()})
	b, err := e.Bands(12, policy.ModeLimit3)
	require.NoError(t, err)

	var tsv bytes.Buffer
	require.NoError(t, WriteBandsTSV(&tsv, 12, policy.ModeLimit3, b))
	assert.Equal(t, "limit3\t12\t0\t12\t0\t3.6\n", tsv.String())

	var js bytes.Buffer
	require.NoError(t, WriteBandsJSON(&js, 12, policy.ModeLimit3, b))
	assert.JSONEq(t, `{"mode":"limit3","target":12,"accept":{"low":0,"high":12},"preferred":{"low":0,"high":3.6}}`, js.String())
}

func TestWriteJSONL(t *testing.T) {
	doc := engine.Assemble(1029, build(t, nil,
		[]string{"5253", "3", "mg", "active"},
		[]string{"5587", "null", "null", "dummy"},
	))
	var b bytes.Buffer
	require.NoError(t, WriteJSONL(&b, doc))
	want := `{"spec_id":1029,"parameter_id":5253,"mode":"active","target":3,"unit":"mg","range":{"low":2.4,"high":4.5},"preferred":{"low":2.7,"high":3.75}}
{"spec_id":1029,"parameter_id":5587,"mode":"dummy","target":null,"unit":null}
`
	assert.Equal(t, want, b.String())
}

func TestWriteBandsText_Labelled(t *testing.T) {
	e := engine.New(engine.Config{Policy: policy.Default()})
	cases := []struct {
		mode   policy.Mode
		target float64
		want   string
	}{
		{policy.ModeActive, 12, "perfect_range: 10.80 - 15.00\n" +
			"okay_range: 9.60 - 10.80\n" +
			"okay_range_2: 15.00 - 18.00\n" +
			"not_okay_range: <9.60 OR >18.00\n"},
		{policy.ModeLimit, 12, "perfect_range: <= 3.60\n" +
			"okay_range: 3.60 - 12.00\n" +
			"not_okay_range: > 12.00\n"},
		{policy.ModeLimit2, 5, "perfect_range: <= 5.00\n" +
			"not_okay_range: > 5.00\n"},
		{policy.ModeActive, 0, "perfect_range: 0.00\nnot_okay_range: > 0.00\n"},
		{policy.ModeLimit3, 0, "perfect_range: 0.00\nnot_okay_range: > 0.00\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			b, err := e.Bands(tc.target, tc.mode)
			require.NoError(t, err)
			var buf bytes.Buffer
			require.NoError(t, WriteBandsText(&buf, tc.mode, b, 2))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}
