package filex

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWav produces a minimal PCM WAV file: mono, 16 kHz, 16-bit, holding
// the requested number of seconds of silence.
func buildWav(t *testing.T, seconds float64) []byte {
	t.Helper()

	const (
		sampleRate = 16000
		channels   = 1
		bitDepth   = 16
	)
	byteRate := sampleRate * channels * bitDepth / 8
	dataSize := int(float64(byteRate) * seconds)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bitDepth/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))

	return buf.Bytes()
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestProbeDuration_Wav(t *testing.T) {
	path := writeTemp(t, "one.wav", buildWav(t, 1.0))

	d, err := ProbeDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 0.01)
}

func TestProbeDuration_NonWavIsUnknown(t *testing.T) {
	path := writeTemp(t, "talk.m4a", []byte("definitely not riff data"))

	d, err := ProbeDuration(path)
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestProbeDuration_MissingFile(t *testing.T) {
	_, err := ProbeDuration(filepath.Join(t.TempDir(), "absent.wav"))
	assert.Error(t, err)
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.m4a", "audio/m4a"},
		{"b.MP3", "audio/mpeg"},
		{"c.wav", "audio/wav"},
		{"d.aac", "audio/aac"},
		{"e.ogg", "application/octet-stream"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MimeType(tc.path), tc.path)
	}
}

func TestFileSize(t *testing.T) {
	path := writeTemp(t, "x.bin", make([]byte, 1234))
	n, err := FileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), n)
}
