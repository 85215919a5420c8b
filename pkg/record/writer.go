package record

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

const (
	OPENING = `{"root":[`
	CLOSING = `]}`

	BZIP2_SUFFIX = ".bz2"
)

// Writer streams per-tick cost snapshots as {"root":[{"<step>":{"<segment>":cost,...}}, ...]}.
// by default the output is strict json; legacyTrailingComma writes a comma after every entry
// (the closing ",]}" older plotting scripts expect).
type Writer struct {
	buf                 *bufio.Writer
	closers             []io.Closer
	legacyTrailingComma bool
	entries             int
	opened              bool
	closed              bool
}

func NewWriter(w io.Writer, legacyTrailingComma bool) *Writer {
	return &Writer{
		buf:                 bufio.NewWriter(w),
		legacyTrailingComma: legacyTrailingComma,
	}
}

// Create opens path for writing, bzip2-compressed when the name ends in .bz2.
func Create(path string, legacyTrailingComma bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, BZIP2_SUFFIX) {
		w := NewWriter(f, legacyTrailingComma)
		w.closers = []io.Closer{f}
		return w, nil
	}

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		f.Close()
		return nil, err
	}
	w := NewWriter(bz, legacyTrailingComma)
	// compressor first so its trailer lands in the file
	w.closers = []io.Closer{bz, f}
	return w, nil
}

// Open writes the opening framing.
func (w *Writer) Open() error {
	if w.opened {
		return nil
	}
	w.opened = true
	_, err := w.buf.WriteString(OPENING)
	return err
}

// Append writes one entry keyed by the step index.
func (w *Writer) Append(step int, costs map[string]float64) error {
	if err := w.Open(); err != nil {
		return err
	}
	entry, err := json.Marshal(map[string]map[string]float64{strconv.Itoa(step): costs})
	if err != nil {
		return err
	}
	if !w.legacyTrailingComma && w.entries > 0 {
		if err := w.buf.WriteByte(','); err != nil {
			return err
		}
	}
	if _, err := w.buf.Write(entry); err != nil {
		return err
	}
	if w.legacyTrailingComma {
		if err := w.buf.WriteByte(','); err != nil {
			return err
		}
	}
	w.entries++
	return w.buf.Flush()
}

func (w *Writer) Entries() int {
	return w.entries
}

// Close writes the closing framing, flushes and closes the underlying file. calling it again is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	keep := func(err error) {
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}
	keep(w.Open())
	_, err := w.buf.WriteString(CLOSING)
	keep(err)
	keep(w.buf.Flush())
	for _, c := range w.closers {
		keep(c.Close())
	}
	return firstErr
}
