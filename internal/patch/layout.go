// internal/patch/layout.go
package patch

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Layout describes where a document keeps its per-parameter items and
// the fields patchers touch. Paths are relative to one item except
// SpecIDPath when SpecIDPerItem is false.
type Layout struct {
	Name          string
	ListKey       string
	IDPath        string
	UnitPath      string
	SpecIDPath    string
	SpecIDPerItem bool
}

var (
	// DocumentLayout is rulegen's default output (api.DocumentV1).
	DocumentLayout = Layout{
		Name:       "document",
		ListKey:    "parameters",
		IDPath:     "parameter_id",
		UnitPath:   "unit",
		SpecIDPath: "spec_id",
	}
	// ImportLayout is the LIMS import layout (api.ImportV1).
	ImportLayout = Layout{
		Name:          "import",
		ListKey:       "rules",
		IDPath:        "data.parametertype_id",
		UnitPath:      "data.DDF_unit",
		SpecIDPath:    "data.spec_id",
		SpecIDPerItem: true,
	}
)

var (
	ErrInvalidJSON   = errors.New("invalid JSON")
	ErrUnknownLayout = errors.New("unknown document layout")
)

// Detect picks the layout by the top-level list key.
func Detect(raw []byte) (Layout, error) {
	if !gjson.ValidBytes(raw) {
		return Layout{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Layout{}, fmt.Errorf("%w: top level is not an object", ErrUnknownLayout)
	}
	for _, l := range []Layout{DocumentLayout, ImportLayout} {
		if root.Get(l.ListKey).IsArray() {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("%w: want a top-level %q or %q list", ErrUnknownLayout, DocumentLayout.ListKey, ImportLayout.ListKey)
}
