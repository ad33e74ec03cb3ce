// pkg/api/import_v1.go
package api

// ImportV1 is the LIMS rule import layout. Every band of every parameter
// is one "create" action. Field order matches the importer's own exports.
type ImportV1 struct {
	Rules []ImportRuleV1 `json:"rules"`
}

type ImportRuleV1 struct {
	Action string       `json:"action"` // always "create"
	Data   ImportDataV1 `json:"data"`
}

// ImportDataV1 keeps every key present; unused ones are null.
type ImportDataV1 struct {
	Color           string   `json:"color"` // "green" | "orange" | "red"
	Column          int      `json:"column"`
	DDFTargetValue  *float64 `json:"DDF_target_value"`
	DDFType         string   `json:"DDF_type"` // "perfect" | "OK" | "not OK"
	DDFUnit         *string  `json:"DDF_unit"`
	Inverse         int      `json:"inverse"`
	Linker          *string  `json:"linker"` // "AND" | "OR"
	Operator        *string  `json:"operator"`
	Operator2       *string  `json:"operator2"`
	ParameterTypeID int      `json:"parametertype_id"`
	RegexFilter     *string  `json:"regex_filter"`
	Show            int      `json:"show"`
	SpecID          int      `json:"spec_id"`
	Text            *string  `json:"text"`
	Translations    any      `json:"translations"`
	Value           any      `json:"value"`
	Value2          any      `json:"value2"`
}
