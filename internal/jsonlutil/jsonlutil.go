// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Buffered writers are pooled; a rule set is written in one burst and the
// 64 KiB buffer is the bulk of each allocation.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Write encodes each item as one compact JSON line, converting it to its
// wire type with conv first. HTML escaping is off so units like "<LOQ"
// stay readable.
func Write[T, W any](out io.Writer, items []T, conv func(T) W) error {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	defer func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(conv(it)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
