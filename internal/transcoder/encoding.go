package transcoder

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the text encoding of a delimited file.
type Encoding int

const (
	// SystemDefault marks unmarked text handled as a raw byte stream.
	SystemDefault Encoding = iota
	// UTF8 marks UTF-8 text carrying the EF BB BF byte-order mark.
	UTF8
	// UTF16LE marks little-endian UTF-16 text (FF FE byte-order mark).
	UTF16LE
	// UTF16BE marks big-endian UTF-16 text (FE FF byte-order mark).
	UTF16BE
)

// Byte-order marks rendered as uppercase hex, two digits per byte.
const (
	BOMUTF16BE = "FEFF"
	BOMUTF16LE = "FFFE"
	BOMUTF8    = "EFBBBF"
)

const (
	// SizeThreshold is the file size, in bytes, above which conversion
	// switches from the whole-file pass to the streaming pass.
	SizeThreshold = 1 << 20

	// ChunkChars bounds the number of characters handled per block on the
	// streaming pass. The block buffer is sized in bytes, so a block never
	// holds more than ChunkChars characters.
	ChunkChars = 100 * 1024

	// SourceDelimiter is the field separator of the legacy tab format being
	// normalized. It is structural, not configurable.
	SourceDelimiter = '\t'

	// DefaultDelimiter is the replacement separator used when the caller
	// supplies none.
	DefaultDelimiter = ','
)

// String returns the canonical name used in config files, the tracker
// database, and CLI output.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	default:
		return "default"
	}
}

// BOM returns the encoding's byte-order mark, or nil for SystemDefault.
func (e Encoding) BOM() []byte {
	switch e {
	case UTF8:
		return []byte{0xEF, 0xBB, 0xBF}
	case UTF16LE:
		return []byte{0xFF, 0xFE}
	case UTF16BE:
		return []byte{0xFE, 0xFF}
	default:
		return nil
	}
}

// Unicode reports whether the encoding was identified by a byte-order mark.
func (e Encoding) Unicode() bool {
	return e != SystemDefault
}

// ParseEncoding maps a canonical name back to its Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "utf-8":
		return UTF8, nil
	case "utf-16le":
		return UTF16LE, nil
	case "utf-16be":
		return UTF16BE, nil
	case "default":
		return SystemDefault, nil
	}
	return SystemDefault, fmt.Errorf("unknown encoding %q", name)
}

// codec returns the x/text encoding used to decode and re-encode content.
//
// The UTF-16 codecs use IgnoreBOM on both directions: the mark decodes to
// U+FEFF and re-encodes to the identical bytes, so the output carries
// exactly the byte-order mark the input had and nothing more. UTF8 and
// SystemDefault pass bytes through untouched; delimiter replacement on the
// decoded stream is plain byte matching, which is safe because the tab
// separator never occurs inside a multi-byte sequence of any
// ASCII-compatible charset.
func (e Encoding) codec() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return encoding.Nop
	}
}
