// Package trace reads and writes recorded input traces: one JSON record
// per line, closed by an integrity footer carrying an xxhash64 checksum
// over every preceding byte.
package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Record is one captured input delta.
type Record struct {
	// TS is the capture time in Unix nanoseconds.
	TS int64 `json:"ts"`

	// DX and DY are the raw delta components in pixels.
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`

	// Phase is the input phase label: began, changed, or ended.
	Phase string `json:"phase"`
}

// footer closes a trace stream.
type footer struct {
	XXH64   string `json:"xxh64"`
	Records int    `json:"records"`
}

// ErrChecksum indicates trace bytes that do not match their footer.
var ErrChecksum = errors.New("trace checksum mismatch")

// Writer appends records to a trace stream and finishes it with an
// integrity footer. Not safe for concurrent use.
type Writer struct {
	w      *bufio.Writer
	digest *xxhash.Digest
	count  int
}

// NewWriter returns a trace writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:      bufio.NewWriter(w),
		digest: xxhash.New(),
	}
}

// Append writes one record line.
func (t *Writer) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	if _, err := t.w.Write(line); err != nil {
		return err
	}
	t.digest.Write(line)
	t.count++
	return nil
}

// Count returns the number of records appended so far.
func (t *Writer) Count() int { return t.count }

// Finish writes the footer line and flushes buffered output. The
// underlying writer stays open.
func (t *Writer) Finish() error {
	f := footer{
		XXH64:   strconv.FormatUint(t.digest.Sum64(), 16),
		Records: t.count,
	}

	line, err := json.Marshal(f)
	if err != nil {
		return err
	}

	if _, err := t.w.Write(append(line, '\n')); err != nil {
		return err
	}
	return t.w.Flush()
}

// ReadFile loads a trace file. verified reports whether an integrity
// footer was present and matched; a present-but-wrong footer returns
// ErrChecksum.
func ReadFile(path string) (records []Record, verified bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read trace: %w", err)
	}
	return Parse(data)
}

// Parse decodes trace bytes.
func Parse(data []byte) ([]Record, bool, error) {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, false, nil
	}

	var f footer
	last := lines[len(lines)-1]
	hasFooter := json.Unmarshal(last, &f) == nil && f.XXH64 != ""

	body := lines
	if hasFooter {
		body = lines[:len(lines)-1]
	}

	records := make([]Record, 0, len(body))
	for i, line := range body {
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, false, fmt.Errorf("trace line %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	if !hasFooter {
		return records, false, nil
	}

	if f.Records != len(records) {
		return records, false, fmt.Errorf("%w: footer counts %d records, found %d",
			ErrChecksum, f.Records, len(records))
	}

	digest := xxhash.New()
	for _, line := range body {
		digest.Write(line)
		digest.Write([]byte{'\n'})
	}
	if strconv.FormatUint(digest.Sum64(), 16) != f.XXH64 {
		return records, false, ErrChecksum
	}

	return records, true, nil
}
