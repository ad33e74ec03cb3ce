// pkg/api/rules_v1.go
package api

// DocumentV1 is the stable JSON schema for a generated rule document.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type DocumentV1 struct {
	SpecID     int           `json:"spec_id"`
	Parameters []ParameterV1 `json:"parameters"`
}

// ParameterV1 is one parameter rule. Target and Unit are always emitted
// (null when absent); Range, Preferred and Qualitative only when bound.
type ParameterV1 struct {
	ParameterID int            `json:"parameter_id"`
	Mode        string         `json:"mode"`
	Target      *float64       `json:"target"`
	Unit        *string        `json:"unit"`
	Range       *RangeV1       `json:"range,omitempty"`
	Preferred   *RangeV1       `json:"preferred,omitempty"`
	Qualitative *QualitativeV1 `json:"qualitative,omitempty"`
}

// RangeV1 is an inclusive [low, high] interval.
type RangeV1 struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type QualitativeV1 struct {
	Pass string `json:"pass"`
	Fail string `json:"fail"`
}

// BandsV1 is the rulerange JSON output for one target.
type BandsV1 struct {
	Mode      string   `json:"mode"`
	Target    float64  `json:"target"`
	Accept    RangeV1  `json:"accept"`
	Preferred *RangeV1 `json:"preferred,omitempty"`
}

// ParameterLineV1 is one line of the JSONL layout: a parameter rule
// tagged with the spec it belongs to.
type ParameterLineV1 struct {
	SpecID int `json:"spec_id"`
	ParameterV1
}
