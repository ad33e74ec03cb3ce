// internal/patchapp/apply.go
package patchapp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"qcrules/internal/cliutil"
	"qcrules/internal/patch"
	"qcrules/internal/writers"
)

type editFunc func(*patch.Doc) (int, error)

type loaded struct {
	path string
	doc  *patch.Doc
}

// apply runs edit on every input. With mergeable set, several inputs and
// --out, the edited documents are merged into one output; otherwise each
// input gets its own output (--inplace, --out for a single input, or the
// default <stem>_<label>.json).
func (sh *shared) apply(args []string, t target, label string, mergeable bool, edit editFunc) error {
	inputs, err := cliutil.ExpandPositionals(args)
	if err != nil {
		return err
	}
	multi := len(inputs) > 1
	if multi && t.out != "" && !mergeable {
		return errors.New("--out takes a single input here; use --inplace or the default names")
	}

	var (
		docs           []loaded
		items, updated int
	)
	for _, in := range inputs {
		d, err := load(in)
		if err != nil {
			return err
		}
		n, err := edit(d)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		items += d.Len()
		updated += n
		sh.log.Info("patched",
			zap.String("in", in),
			zap.String("layout", d.Layout.Name),
			zap.Int("items", d.Len()),
			zap.Int("updated", n))
		docs = append(docs, loaded{path: in, doc: d})
	}

	if multi && t.out != "" {
		merged := docs[0].doc
		rest := make([]*patch.Doc, 0, len(docs)-1)
		for _, l := range docs[1:] {
			rest = append(rest, l.doc)
		}
		if err := merged.Merge(rest...); err != nil {
			return err
		}
		if err := sh.publish(t.out, merged); err != nil {
			return err
		}
		sh.log.Info("merged", zap.Int("files", len(docs)), zap.Int("items", merged.Len()), zap.String("out", t.out))
	} else {
		for _, l := range docs {
			out := patch.DefaultOutPath(l.path, label)
			switch {
			case t.inplace:
				out = l.path
			case t.out != "":
				out = t.out
			}
			if err := sh.publish(out, l.doc); err != nil {
				return err
			}
			sh.log.Debug("wrote", zap.String("in", l.path), zap.String("out", out))
		}
	}

	if t.out != writers.StdoutPath {
		_, _ = fmt.Fprintf(sh.stdout, "Files processed: %d\nTotal items: %d\nUpdated: %d\n", len(docs), items, updated)
	}
	return nil
}

func load(path string) (*patch.Doc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := patch.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (sh *shared) publish(path string, d *patch.Doc) error {
	err := writers.Publish(path, sh.stdout, func(w io.Writer) error {
		_, err := w.Write(d.Bytes())
		return err
	})
	if err != nil {
		return ioErr(err)
	}
	return nil
}
