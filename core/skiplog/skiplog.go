package skiplog

import (
	"fmt"
	"os"
)

// Writer appends skip diagnostics to a text file. It is strictly
// best-effort: every I/O failure is swallowed so a broken log path can
// never abort an otherwise-successful import.
type Writer struct {
	path string
}

// New returns a writer appending to path. An empty path yields a writer
// that discards everything.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Skip records one skipped item as "<reason> path=<relPath>".
func (w *Writer) Skip(reason, relPath string) {
	w.Line(fmt.Sprintf("%s path=%s", reason, relPath))
}

// Line appends one raw line.
func (w *Writer) Line(line string) {
	if w == nil || w.path == "" {
		return
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}
