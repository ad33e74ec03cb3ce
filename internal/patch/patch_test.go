package patch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"qcrules/internal/jsonutil"
	"qcrules/pkg/api"
)

func f64(v float64) *float64 { return &v }
func strp(v string) *string { return &v }

func encode(t *testing.T, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jsonutil.EncodePretty(&buf, v))
	return buf.Bytes()
}

func documentFixture(t *testing.T) []byte {
	return encode(t, api.DocumentV1{
		SpecID: 1029,
		Parameters: []api.ParameterV1{
			{ParameterID: 5253, Mode: "active", Target: f64(3), Unit: strp("mg"), Range: &api.RangeV1{Low: 2.4, High: 4.5}},
			{ParameterID: 5587, Mode: "dummy"},
			{ParameterID: 5253, Mode: "limit2", Target: f64(1), Unit: strp(""), Range: &api.RangeV1{Low: 0, High: 1}},
		},
	})
}

func importFixture(t *testing.T) []byte {
	rule := func(pid int, unit *string, op string) api.ImportRuleV1 {
		return api.ImportRuleV1{Action: "create", Data: api.ImportDataV1{
			Color: "green", DDFType: "perfect", DDFUnit: unit, Operator: strp(op),
			ParameterTypeID: pid, Show: 1, SpecID: 1, Value: 1.0,
		}}
	}
	return encode(t, api.ImportV1{Rules: []api.ImportRuleV1{
		rule(101, strp("mg"), "<="),
		rule(202, nil, ">"),
		rule(101, strp("mg"), ">"),
	}})
}

func TestDetect(t *testing.T) {
	l, err := Detect(documentFixture(t))
	require.NoError(t, err)
	assert.Equal(t, "document", l.Name)

	l, err = Detect(importFixture(t))
	require.NoError(t, err)
	assert.Equal(t, "import", l.Name)

	_, err = Detect([]byte(`{"items": []}`))
	assert.ErrorIs(t, err, ErrUnknownLayout)
	_, err = Detect([]byte(`[1]`))
	assert.ErrorIs(t, err, ErrUnknownLayout)
	_, err = Detect([]byte(`{"rules": [`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestBytes_UnchangedDocumentIsIdentical(t *testing.T) {
	for _, raw := range [][]byte{documentFixture(t), importFixture(t)} {
		d, err := Open(raw)
		require.NoError(t, err)
		assert.Equal(t, string(raw), string(d.Bytes()))
	}
}

func TestSetSpecID(t *testing.T) {
	d, err := Open(documentFixture(t))
	require.NoError(t, err)
	n, err := d.SetSpecID(77)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(77), gjson.GetBytes(d.Bytes(), "spec_id").Int())
	assert.True(t, bytes.HasPrefix(d.Bytes(), []byte("{\n  \"spec_id\": 77,")), "key order kept")

	d, err = Open(importFixture(t))
	require.NoError(t, err)
	n, err = d.SetSpecID(789)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, v := range gjson.GetBytes(d.Bytes(), "rules.#.data.spec_id").Array() {
		assert.Equal(t, int64(789), v.Int())
	}
}

func TestSetUnit(t *testing.T) {
	d, err := Open(importFixture(t))
	require.NoError(t, err)

	n, err := d.SetUnit(strp("mg/kg"), Filter{OnlyMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	units := gjson.GetBytes(d.Bytes(), "rules.#.data.DDF_unit").Array()
	assert.Equal(t, []string{"mg", "mg/kg", "mg"}, []string{units[0].String(), units[1].String(), units[2].String()})

	n, err = d.SetUnit(nil, Filter{IDs: []int{101}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, gjson.Null, gjson.GetBytes(d.Bytes(), "rules.0.data.DDF_unit").Type)
	assert.Equal(t, "mg/kg", gjson.GetBytes(d.Bytes(), "rules.1.data.DDF_unit").String())
}

func TestSetUnit_DocumentEmptyStringIsMissing(t *testing.T) {
	d, err := Open(documentFixture(t))
	require.NoError(t, err)
	n, err := d.SetUnit(strp("g"), Filter{OnlyMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "null and empty unit are missing")
	assert.Equal(t, "mg", gjson.GetBytes(d.Bytes(), "parameters.0.unit").String())
}

func TestSetKey(t *testing.T) {
	d, err := Open(importFixture(t))
	require.NoError(t, err)

	v, err := ParseValue("1", "int")
	require.NoError(t, err)
	n, err := d.SetKey("data.column", v, Filter{IDs: []int{202}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1), gjson.GetBytes(d.Bytes(), "rules.1.data.column").Int())
	assert.Equal(t, int64(0), gjson.GetBytes(d.Bytes(), "rules.0.data.column").Int())

	n, err = d.SetKey("meta.source", String("<lims>"), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, string(d.Bytes()), `"source": "<lims>"`)

	_, err = d.SetKey("data..x", Null, Filter{})
	assert.ErrorContains(t, err, "empty segment")
	_, err = d.SetKey("rules.#.x", Null, Filter{})
	assert.ErrorContains(t, err, "reserved characters")
}

func TestRemove(t *testing.T) {
	d, err := Open(importFixture(t))
	require.NoError(t, err)
	n, err := d.Remove([]int{101})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, int64(202), gjson.GetBytes(d.Bytes(), "rules.0.data.parametertype_id").Int())

	n, err = d.Remove([]int{999})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = d.Remove([]int{202})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, string(d.Bytes()), `"rules": []`)

	_, err = d.Remove(nil)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	a, err := Open(importFixture(t))
	require.NoError(t, err)
	b, err := Open(importFixture(t))
	require.NoError(t, err)
	require.NoError(t, a.Merge(b))
	assert.Equal(t, 6, a.Len())

	doc, err := Open(documentFixture(t))
	require.NoError(t, err)
	assert.ErrorContains(t, a.Merge(doc), "cannot merge document layout into import layout")
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw, kind, want string
	}{
		{"42", "auto", "42"},
		{"-7", "auto", "-7"},
		{"3.50", "auto", "3.5"},
		{"TRUE", "auto", "true"},
		{"null", "auto", "null"},
		{"", "auto", "null"},
		{"mg/kg", "auto", `"mg/kg"`},
		{"42", "str", `"42"`},
		{"a<b", "str", `"a<b"`},
		{" 9 ", "int", "9"},
		{"2", "float", "2"},
		{"yes", "bool", "true"},
		{"off", "bool", "false"},
		{"anything", "null", "null"},
		{` {"a": [1]} `, "json", `{"a": [1]}`},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.raw, tc.kind)
		require.NoError(t, err, "%s as %s", tc.raw, tc.kind)
		assert.Equal(t, tc.want, string(got), "%s as %s", tc.raw, tc.kind)
	}

	for _, bad := range [][2]string{{"x", "int"}, {"NaN", "float"}, {"maybe", "bool"}, {"{", "json"}, {"1", "date"}} {
		_, err := ParseValue(bad[0], bad[1])
		assert.Error(t, err, "%s as %s", bad[0], bad[1])
	}
}

func TestDefaultOutPath(t *testing.T) {
	assert.Equal(t, "dir/Rules_20251105_spec789.json", DefaultOutPath("dir/Rules_20251105.json", "spec789"))
	assert.Equal(t, "unit_mgkg", "unit_"+SafeLabel("mg / kg"))
}
