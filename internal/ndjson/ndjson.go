// Package ndjson provides line-oriented reading and writing of
// newline-delimited JSON streams.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// initialBufSize is the starting scanner buffer size.
const initialBufSize = 64 * 1024

// MaxLineSize is the largest single line the reader will accept.
// Lines beyond this are a protocol violation, not a legitimate event.
const MaxLineSize = 10 * 1024 * 1024

// Reader reads one line at a time from an NDJSON stream.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialBufSize), MaxLineSize)
	return &Reader{scanner: scanner}
}

// ReadLine returns the next line without its trailing newline.
// It returns io.EOF when the stream is exhausted.
func (r *Reader) ReadLine() ([]byte, error) {
	if r.scanner.Scan() {
		// Copy out: the scanner reuses its buffer on the next Scan.
		line := make([]byte, len(r.scanner.Bytes()))
		copy(line, r.scanner.Bytes())
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Writer writes newline-terminated lines to an NDJSON stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRaw writes a pre-encoded line, appending a newline if missing.
func (w *Writer) WriteRaw(line []byte) error {
	if !bytes.HasSuffix(line, []byte("\n")) {
		line = append(line, '\n')
	}
	_, err := w.w.Write(line)
	return err
}

// WriteJSON encodes v as JSON and writes it as a single line.
func (w *Writer) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteRaw(data)
}
