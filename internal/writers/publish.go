// internal/writers/publish.go
package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

// Publish runs write against path. For a file, the output goes to a temp
// file in the same directory which is renamed over path only after write
// and the flush succeed; on any error the temp file is removed and path is
// left as it was. For StdoutPath a closed downstream pipe is not an error.
func Publish(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == StdoutPath {
		bw := bufio.NewWriter(stdout)
		err := write(bw)
		if err == nil {
			err = bw.Flush()
		}
		if IsBrokenPipe(err) {
			return nil
		}
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	committed = true
	return nil
}
