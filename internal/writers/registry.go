// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"qcrules/internal/engine"
	"qcrules/internal/output"
)

// DocumentWriter serializes a rule document in one format.
type DocumentWriter func(w io.Writer, doc engine.RuleDocument) error

// DefaultFormat is used when --format is not given.
const DefaultFormat = "document"

// Writer registry (format → handler). Last registration wins.
var documentWriters = map[string]DocumentWriter{}

func Register(format string, fn DocumentWriter) { documentWriters[format] = fn }

func init() {
	Register("document", output.WriteDocument)
	Register("import", output.WriteImport)
	Register("jsonl", output.WriteJSONL)
	Register("text", output.WriteText)
}

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(documentWriters))
	for f := range documentWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the writer for format.
func Lookup(format string) (DocumentWriter, error) {
	fn, ok := documentWriters[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return fn, nil
}

// Write dispatches doc to the writer registered for format.
func Write(format string, w io.Writer, doc engine.RuleDocument) error {
	fn, err := Lookup(format)
	if err != nil {
		return err
	}
	return fn(w, doc)
}
