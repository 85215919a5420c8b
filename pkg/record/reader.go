package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

type Entry struct {
	Step  int
	Costs map[string]float64
}

type Record struct {
	Entries []Entry
}

type SeriesPoint struct {
	Step int
	Cost float64
}

// Read parses a record in either framing variant.
func Read(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = stripTrailingComma(data)

	var raw struct {
		Root []map[string]map[string]float64 `json:"root"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	rec := &Record{Entries: make([]Entry, 0, len(raw.Root))}
	for i, e := range raw.Root {
		if len(e) != 1 {
			return nil, fmt.Errorf("record entry %d has %d keys, expected one step", i, len(e))
		}
		for key, costs := range e {
			step, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("record entry %d has non numeric step %q", i, key)
			}
			rec.Entries = append(rec.Entries, Entry{Step: step, Costs: costs})
		}
	}
	return rec, nil
}

func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, BZIP2_SUFFIX) {
		return Read(f)
	}
	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()
	return Read(bz)
}

// stripTrailingComma turns the legacy ",]}" ending into "]}".
func stripTrailingComma(data []byte) []byte {
	trimmed := bytes.TrimRight(data, " \t\r\n")
	if !bytes.HasSuffix(trimmed, []byte(CLOSING)) {
		return data
	}
	body := bytes.TrimRight(trimmed[:len(trimmed)-len(CLOSING)], " \t\r\n")
	if !bytes.HasSuffix(body, []byte(",")) {
		return data
	}
	out := make([]byte, 0, len(body)+len(CLOSING)-1)
	out = append(out, body[:len(body)-1]...)
	return append(out, CLOSING...)
}

// Series the cost of segmentID at every entry that tracks it, in record order.
func (r *Record) Series(segmentID string) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(r.Entries))
	for _, e := range r.Entries {
		if c, ok := e.Costs[segmentID]; ok {
			points = append(points, SeriesPoint{Step: e.Step, Cost: c})
		}
	}
	return points
}

func (r *Record) Steps() []int {
	steps := make([]int, 0, len(r.Entries))
	for _, e := range r.Entries {
		steps = append(steps, e.Step)
	}
	return steps
}
