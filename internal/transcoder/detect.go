package transcoder

import (
	"fmt"
	"io"
	"os"
)

// DetectEncoding classifies path by its leading byte-order mark.
//
// It reads at most three bytes and compares the accumulated uppercase hex
// rendering against the known marks after each byte, so the two-byte UTF-16
// marks match without touching a third byte. Anything that fails to match —
// shorter files, unmarked text, unreadable paths — is SystemDefault; the
// probe never reports an error because an unreadable file and an unmarked
// file call for the same treatment.
func DetectEncoding(path string) Encoding {
	f, err := os.Open(path)
	if err != nil {
		return SystemDefault
	}
	defer f.Close()

	var probe [3]byte
	n, err := io.ReadFull(f, probe[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		return SystemDefault
	}

	prefix := ""
	for i := 0; i < n; i++ {
		prefix += fmt.Sprintf("%02X", probe[i])
		switch prefix {
		case BOMUTF16BE:
			return UTF16BE
		case BOMUTF16LE:
			return UTF16LE
		case BOMUTF8:
			return UTF8
		}
	}
	return SystemDefault
}
