package ndjson

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadLine(t *testing.T) {
	t.Parallel()
	r := NewReader(strings.NewReader("{\"a\":1}\n{\"b\":2}\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(line))

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(line))

	_, err = r.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestReader_MissingFinalNewline(t *testing.T) {
	t.Parallel()
	r := NewReader(strings.NewReader(`{"a":1}`))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(line))

	_, err = r.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestReader_LinesAreStable(t *testing.T) {
	t.Parallel()
	r := NewReader(strings.NewReader("first line\nsecond line\n"))

	first, err := r.ReadLine()
	require.NoError(t, err)
	_, err = r.ReadLine()
	require.NoError(t, err)

	// The first line must survive subsequent reads.
	assert.Equal(t, "first line", string(first))
}

func TestWriter_WriteRaw(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteRaw([]byte(`{"a":1}`)))
	require.NoError(t, w.WriteRaw([]byte("{\"b\":2}\n")))

	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", buf.String())
}

func TestWriter_WriteJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteJSON(map[string]int{"a": 1}))

	assert.Equal(t, "{\"a\":1}\n", buf.String())
}
