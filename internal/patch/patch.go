// internal/patch/patch.go
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Doc is one rule document being patched.
type Doc struct {
	Layout Layout
	raw    []byte
}

// Filter restricts an edit to items whose parameter id is in IDs (all
// items when empty). OnlyMissing skips items whose current value is set.
type Filter struct {
	IDs         []int
	OnlyMissing bool
}

// Open detects the layout of raw and wraps it.
func Open(raw []byte) (*Doc, error) {
	l, err := Detect(raw)
	if err != nil {
		return nil, err
	}
	return &Doc{Layout: l, raw: append([]byte(nil), raw...)}, nil
}

// Len is the number of items in the document's list.
func (d *Doc) Len() int { return int(gjson.GetBytes(d.raw, d.Layout.ListKey+".#").Int()) }

// Bytes returns the document re-indented with two spaces.
func (d *Doc) Bytes() []byte {
	return pretty.PrettyOptions(d.raw, &pretty.Options{Width: 0, Prefix: "", Indent: "  "})
}

func (d *Doc) itemPath(i int, sub string) string {
	return d.Layout.ListKey + "." + strconv.Itoa(i) + "." + sub
}

func (d *Doc) items() []gjson.Result { return gjson.GetBytes(d.raw, d.Layout.ListKey).Array() }

func (d *Doc) set(path string, v Value) error {
	out, err := sjson.SetRawBytes(d.raw, path, v)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	d.raw = out
	return nil
}

// SetSpecID sets the spec id and returns how many places were updated.
func (d *Doc) SetSpecID(id int) (int, error) {
	if !d.Layout.SpecIDPerItem {
		return 1, d.set(d.Layout.SpecIDPath, Int(id))
	}
	n := 0
	for i, it := range d.items() {
		if !it.Get("data").IsObject() {
			continue
		}
		if err := d.set(d.itemPath(i, d.Layout.SpecIDPath), Int(id)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// SetUnit sets (or, for nil, clears) the unit of matching items.
func (d *Doc) SetUnit(unit *string, f Filter) (int, error) {
	v := Null
	if unit != nil {
		v = String(*unit)
	}
	return d.SetKey(d.Layout.UnitPath, v, f)
}

// SetKey sets the dot path key, relative to each item, on matching items.
// Intermediate objects are created as needed.
func (d *Doc) SetKey(key string, v Value, f Filter) (int, error) {
	if err := checkPath(key); err != nil {
		return 0, err
	}
	ids := idSet(f.IDs)
	n := 0
	for i, it := range d.items() {
		if !it.IsObject() || !d.matches(it, ids) {
			continue
		}
		if f.OnlyMissing && !missing(it.Get(key)) {
			continue
		}
		if err := d.set(d.itemPath(i, key), v); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Remove drops every item whose parameter id is in ids and returns how
// many were removed.
func (d *Doc) Remove(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, errors.New("no parameter ids to remove")
	}
	set := idSet(ids)
	var kept [][]byte
	removed := 0
	for _, it := range d.items() {
		if d.matches(it, set) {
			removed++
			continue
		}
		kept = append(kept, []byte(it.Raw))
	}
	if removed == 0 {
		return 0, nil
	}
	list := append(append([]byte{'['}, bytes.Join(kept, []byte{','})...), ']')
	return removed, d.set(d.Layout.ListKey, list)
}

// Merge appends the items of others to d. All documents must share d's layout.
func (d *Doc) Merge(others ...*Doc) error {
	parts := [][]byte{}
	for _, it := range d.items() {
		parts = append(parts, []byte(it.Raw))
	}
	for _, o := range others {
		if o.Layout.Name != d.Layout.Name {
			return fmt.Errorf("cannot merge %s layout into %s layout", o.Layout.Name, d.Layout.Name)
		}
		for _, it := range o.items() {
			parts = append(parts, []byte(it.Raw))
		}
	}
	list := append(append([]byte{'['}, bytes.Join(parts, []byte{','})...), ']')
	return d.set(d.Layout.ListKey, list)
}

func (d *Doc) matches(it gjson.Result, ids map[int64]bool) bool {
	if ids == nil {
		return true
	}
	r := it.Get(d.Layout.IDPath)
	return r.Exists() && ids[r.Int()]
}

func idSet(ids []int) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[int64(id)] = true
	}
	return m
}

// missing treats absent, null, "" and "null" as unset.
func missing(r gjson.Result) bool {
	if !r.Exists() || r.Type == gjson.Null {
		return true
	}
	if r.Type == gjson.String {
		s := strings.ToLower(strings.TrimSpace(r.Str))
		return s == "" || s == "null"
	}
	return false
}

// checkPath rejects empty segments and gjson query syntax in key paths.
func checkPath(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key path must be non-empty, e.g. data.spec_id")
	}
	for _, seg := range strings.Split(key, ".") {
		if seg == "" {
			return fmt.Errorf("key path %q has an empty segment", key)
		}
		if strings.ContainsAny(seg, `*?#|@\!`) {
			return fmt.Errorf("key path %q: segment %q uses reserved characters", key, seg)
		}
	}
	return nil
}

// DefaultOutPath is "<dir>/<stem>_<label>.json" beside in.
func DefaultOutPath(in, label string) string {
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(filepath.Dir(in), stem+"_"+label+".json")
}

// SafeLabel strips characters that do not belong in a file name label.
func SafeLabel(s string) string {
	return strings.NewReplacer("/", "", " ", "", "\\", "").Replace(s)
}
