package transcoder

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// ConvertError reports an I/O or codec failure during delimiter conversion.
// The destination file's contents are undefined after a failure; callers are
// expected to convert into a temporary path and promote it only on success.
type ConvertError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// ConvertDelimiters rewrites src into dst with every occurrence of from
// replaced by to, decoding and re-encoding through enc so no byte outside a
// delimiter position changes. Files at or below SizeThreshold are converted
// in a single in-memory pass; larger files are streamed in blocks of at
// most ChunkChars characters. src must not equal dst on the streaming pass,
// since the output is written while the input is still being read.
func ConvertDelimiters(src, dst string, from, to rune, enc Encoding) error {
	info, err := os.Stat(src)
	if err != nil {
		return &ConvertError{Op: "stat", Path: src, Err: err}
	}
	if info.Size() <= SizeThreshold {
		return convertWhole(src, dst, from, to, enc)
	}
	return convertStream(src, dst, from, to, enc)
}

// convertWhole decodes the entire file, replaces delimiters, and re-encodes.
func convertWhole(src, dst string, from, to rune, enc Encoding) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return &ConvertError{Op: "read", Path: src, Err: err}
	}

	codec := enc.codec()
	decoded, err := codec.NewDecoder().Bytes(raw)
	if err != nil {
		return &ConvertError{Op: "decode", Path: src, Err: err}
	}

	replaced := replaceDelimiter(decoded, from, to)

	out, err := codec.NewEncoder().Bytes(replaced)
	if err != nil {
		return &ConvertError{Op: "encode", Path: dst, Err: err}
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return &ConvertError{Op: "write", Path: dst, Err: err}
	}
	return nil
}

// convertStream copies src to dst through a decoding reader and an encoding
// writer, replacing delimiters block by block.
func convertStream(src, dst string, from, to rune, enc Encoding) error {
	in, err := os.Open(src)
	if err != nil {
		return &ConvertError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &ConvertError{Op: "create", Path: dst, Err: err}
	}
	defer out.Close()

	codec := enc.codec()
	reader := transform.NewReader(in, codec.NewDecoder())
	writer := transform.NewWriter(out, codec.NewEncoder())

	if err := replaceStream(reader, writer, from, to); err != nil {
		return &ConvertError{Op: "convert", Path: src, Err: err}
	}
	if err := writer.Close(); err != nil {
		return &ConvertError{Op: "flush", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &ConvertError{Op: "close", Path: dst, Err: err}
	}
	return nil
}

// replaceStream pumps the decoded stream through replaceDelimiter in blocks.
// Trailing bytes of a partially read character are held back and prepended
// to the next block, so a code unit straddling a block boundary is never
// examined in two halves.
func replaceStream(r io.Reader, w io.Writer, from, to rune) error {
	buf := make([]byte, ChunkChars)
	keep := 0
	for {
		n, rerr := r.Read(buf[keep:])
		n += keep
		keep = 0

		if n > 0 {
			complete := n
			if rerr == nil {
				complete = completeBoundary(buf[:n])
			}
			if _, werr := w.Write(replaceDelimiter(buf[:complete], from, to)); werr != nil {
				return werr
			}
			keep = copy(buf, buf[complete:n])
		}

		if rerr == io.EOF {
			if keep > 0 {
				// Input ended mid-character; pass the remnant through.
				if _, werr := w.Write(buf[:keep]); werr != nil {
					return werr
				}
			}
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// completeBoundary returns the length of the longest prefix of b that ends
// on a character boundary. Bytes that do not form a UTF-8 prefix at all are
// treated as complete so raw passthrough content cannot stall the stream.
func completeBoundary(b []byte) int {
	for i := len(b) - 1; i >= 0 && len(b)-i <= utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}
			return i
		}
	}
	return len(b)
}

func replaceDelimiter(b []byte, from, to rune) []byte {
	return bytes.ReplaceAll(b, []byte(string(from)), []byte(string(to)))
}
