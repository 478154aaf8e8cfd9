// Package filex contains small helpers for working with local audio files:
// size lookup, MIME detection by extension, and a best-effort duration probe.
package filex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSize returns the size of the file at path in bytes.
func FileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Size(), nil
}

// MimeType maps an audio file extension to its MIME type. Unknown extensions
// fall back to application/octet-stream.
func MimeType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "m4a":
		return "audio/m4a"
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "aac":
		return "audio/aac"
	default:
		return "application/octet-stream"
	}
}

// ProbeDuration returns the duration of the audio file in seconds.
//
// Only PCM WAV containers are parsed; for any other format, or any parse
// problem, it returns 0 with a nil error. Callers treat 0 as "unknown",
// never as a failure; the backend measures the real duration itself.
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := wavDuration(f)
	if err != nil {
		return 0, nil
	}
	return d, nil
}

var errNotWav = errors.New("not a wav file")

// wavDuration walks RIFF chunks and computes data-chunk length divided by
// the fmt chunk's byte rate.
func wavDuration(r io.ReadSeeker) (float64, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, errNotWav
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, errNotWav
	}

	var byteRate uint32
	var dataSize uint32

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			break
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return 0, errNotWav
			}
			var fmtData [16]byte
			if _, err := io.ReadFull(r, fmtData[:]); err != nil {
				return 0, errNotWav
			}
			byteRate = binary.LittleEndian.Uint32(fmtData[8:12])
			if size > 16 {
				if _, err := r.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return 0, errNotWav
				}
			}
		case "data":
			dataSize = size
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				// truncated data chunk is fine, the declared size still counts
				break
			}
		default:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return 0, errNotWav
			}
		}

		// chunks are word-aligned
		if size%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}

		if byteRate != 0 && dataSize != 0 {
			break
		}
	}

	if byteRate == 0 || dataSize == 0 {
		return 0, errNotWav
	}
	return float64(dataSize) / float64(byteRate), nil
}
