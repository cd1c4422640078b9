package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"unicsv/internal/transcoder"
)

// WriteEncoded renders text in enc, prefixed with the encoding's byte-order
// mark, and writes it to path. SystemDefault text is written verbatim.
func WriteEncoded(t testing.TB, path, text string, enc transcoder.Encoding) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, Encode(t, text, enc), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Encode returns text serialized in enc with its byte-order mark.
func Encode(t testing.TB, text string, enc transcoder.Encoding) []byte {
	t.Helper()

	switch enc {
	case transcoder.UTF8:
		return append(enc.BOM(), text...)
	case transcoder.UTF16LE, transcoder.UTF16BE:
		var endian byte
		if enc == transcoder.UTF16BE {
			endian = 1
		}
		data := make([]byte, 0, 2*len(text)+2)
		data = append(data, enc.BOM()...)
		for _, r := range text {
			if r > 0xFFFF {
				t.Fatalf("Encode does not build surrogate pairs, got %q", r)
			}
			lo, hi := byte(r), byte(r>>8)
			if endian == 1 {
				data = append(data, hi, lo)
			} else {
				data = append(data, lo, hi)
			}
		}
		return data
	default:
		return []byte(text)
	}
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}
