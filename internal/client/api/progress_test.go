package api

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_MonotonicAndBounded(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1000)

	var got []float64
	pr := newProgressReader(bytes.NewReader(payload), int64(len(payload)), func(f float64) {
		got = append(got, f)
	})

	buf := make([]byte, 64)
	_, err := io.CopyBuffer(io.Discard, onlyReader{pr}, buf)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	prev := 0.0
	for _, f := range got {
		assert.GreaterOrEqual(t, f, prev)
		assert.LessOrEqual(t, f, 1.0)
		prev = f
	}
	assert.Equal(t, 1.0, got[len(got)-1])
}

func TestProgressReader_UndersizedEstimateClampsToOne(t *testing.T) {
	// declared total is smaller than the actual stream
	payload := strings.Repeat("y", 500)

	var got []float64
	pr := newProgressReader(strings.NewReader(payload), 100, func(f float64) {
		got = append(got, f)
	})

	_, err := io.Copy(io.Discard, onlyReader{pr})
	require.NoError(t, err)

	for _, f := range got {
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestProgressReader_UnknownTotalReportsOne(t *testing.T) {
	var got []float64
	pr := newProgressReader(strings.NewReader("abc"), 0, func(f float64) {
		got = append(got, f)
	})

	_, err := io.Copy(io.Discard, onlyReader{pr})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, []float64{1.0}, got)
}

func TestProgressReader_NilCallback(t *testing.T) {
	pr := newProgressReader(strings.NewReader("abc"), 3, nil)
	_, err := io.Copy(io.Discard, onlyReader{pr})
	assert.NoError(t, err)
}

// onlyReader hides WriteTo/ReadFrom fast paths so io.Copy goes through Read.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(b []byte) (int, error) { return o.r.Read(b) }
