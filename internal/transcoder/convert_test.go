package transcoder

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// encodeText renders text in enc with the encoding's byte-order mark, the
// way a well-formed marked file arrives on disk.
func encodeText(t *testing.T, text string, enc Encoding) []byte {
	t.Helper()
	if enc == UTF8 {
		return append(enc.BOM(), text...)
	}
	if enc.Unicode() {
		text = "\uFEFF" + text
	}
	out, err := enc.codec().NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return out
}

func convertFixture(t *testing.T, data []byte, from, to rune, enc Encoding) []byte {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	dst := filepath.Join(dir, "dst.csv")
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := ConvertDelimiters(src, dst, from, to, enc); err != nil {
		t.Fatalf("ConvertDelimiters: %v", err)
	}
	out, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	return out
}

func TestConvertDelimitersRoundTrip(t *testing.T) {
	const text = "name\tcity\tnote\n张三\t北京\tok\n"
	const want = "name;city;note\n张三;北京;ok\n"

	for _, enc := range []Encoding{SystemDefault, UTF8, UTF16LE, UTF16BE} {
		t.Run(enc.String(), func(t *testing.T) {
			in := encodeText(t, text, enc)
			got := convertFixture(t, in, '\t', ';', enc)
			if !bytes.Equal(got, encodeText(t, want, enc)) {
				t.Fatalf("converted bytes mismatch\n got % X\nwant % X", got, encodeText(t, want, enc))
			}
		})
	}
}

func TestConvertDelimitersSpecExample(t *testing.T) {
	// FF FE "A\tB\tC" with destination ';' must keep the mark and byte order.
	in := []byte{0xFF, 0xFE, 'A', 0x00, '\t', 0x00, 'B', 0x00, '\t', 0x00, 'C', 0x00}
	want := []byte{0xFF, 0xFE, 'A', 0x00, ';', 0x00, 'B', 0x00, ';', 0x00, 'C', 0x00}

	got := convertFixture(t, in, '\t', ';', UTF16LE)
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestConvertDelimitersIdempotent(t *testing.T) {
	in := encodeText(t, "a\tb\tc\nd\te\tf\n", UTF16LE)

	once := convertFixture(t, in, '\t', ',', UTF16LE)
	twice := convertFixture(t, once, '\t', ',', UTF16LE)
	if !bytes.Equal(once, twice) {
		t.Fatal("second conversion changed an already-converted file")
	}
}

func TestConvertDelimitersTabFreeUnchanged(t *testing.T) {
	in := encodeText(t, "already,converted,content\n", UTF8)
	got := convertFixture(t, in, '\t', ',', UTF8)
	if !bytes.Equal(got, in) {
		t.Fatal("tab-free input was altered")
	}
}

func TestConvertDelimitersCounts(t *testing.T) {
	row := strings.Repeat("field\t", 9) + "tail\n"
	text := strings.Repeat(row, 50)
	wantTabs := strings.Count(text, "\t")

	got := convertFixture(t, encodeText(t, text, UTF8), '\t', ',', UTF8)
	converted := string(got[len(UTF8.BOM()):])

	if n := strings.Count(converted, "\t"); n != 0 {
		t.Fatalf("output still contains %d tabs", n)
	}
	if n := strings.Count(converted, ","); n != wantTabs {
		t.Fatalf("output has %d commas, want %d", n, wantTabs)
	}
	if len(converted) != len(text) {
		t.Fatalf("character count changed: %d -> %d", len(text), len(converted))
	}
	if strings.ReplaceAll(converted, ",", "\t") != text {
		t.Fatal("non-delimiter content changed")
	}
}

// Both strategies must agree on an input whose encoded size sits exactly on
// the small/large threshold.
func TestConvertStrategiesAgreeAtThreshold(t *testing.T) {
	row := strings.Repeat("x", 15) + "\t"
	text := strings.Repeat(row, SizeThreshold/len(row))
	text += strings.Repeat("y", SizeThreshold-len(text))
	if len(text) != SizeThreshold {
		t.Fatalf("fixture is %d bytes, want %d", len(text), SizeThreshold)
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	if err := os.WriteFile(src, []byte(text), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	wholeDst := filepath.Join(dir, "whole.csv")
	streamDst := filepath.Join(dir, "stream.csv")
	if err := convertWhole(src, wholeDst, '\t', ';', SystemDefault); err != nil {
		t.Fatalf("convertWhole: %v", err)
	}
	if err := convertStream(src, streamDst, '\t', ';', SystemDefault); err != nil {
		t.Fatalf("convertStream: %v", err)
	}

	whole, err := os.ReadFile(wholeDst)
	if err != nil {
		t.Fatal(err)
	}
	stream, err := os.ReadFile(streamDst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(whole, stream) {
		t.Fatal("whole-file and streaming outputs differ at the threshold size")
	}
}

// A large UTF-16 input full of characters that decode to three UTF-8 bytes
// guarantees block boundaries land mid-character on the streaming pass.
func TestConvertStreamChunkStraddle(t *testing.T) {
	row := "日本語の列\tデータé\n"
	var sb strings.Builder
	for sb.Len() < 2*SizeThreshold {
		sb.WriteString(row)
	}
	text := sb.String()

	in := encodeText(t, text, UTF16LE)
	if len(in) <= SizeThreshold {
		t.Fatalf("fixture too small to exercise the streaming pass: %d bytes", len(in))
	}

	got := convertFixture(t, in, '\t', ';', UTF16LE)
	want := encodeText(t, strings.ReplaceAll(text, "\t", ";"), UTF16LE)
	if !bytes.Equal(got, want) {
		t.Fatal("streaming conversion corrupted multi-byte content")
	}
}

func TestConvertLargePlainUTF8(t *testing.T) {
	row := strings.Repeat("a", 19) + "\t"
	text := strings.Repeat(row, 2*SizeThreshold/len(row))
	wantTabs := strings.Count(text, "\t")

	got := convertFixture(t, []byte(text), '\t', ',', SystemDefault)

	if len(got) != len(text) {
		t.Fatalf("length changed: %d -> %d", len(text), len(got))
	}
	if n := bytes.Count(got, []byte{'\t'}); n != 0 {
		t.Fatalf("output still contains %d tabs", n)
	}
	if n := bytes.Count(got, []byte{','}); n != wantTabs {
		t.Fatalf("output has %d commas, want %d", n, wantTabs)
	}
}

func TestConvertDelimitersMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := ConvertDelimiters(filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.csv"), '\t', ',', UTF8)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	var convErr *ConvertError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConvertError, got %T", err)
	}
	if convErr.Op != "stat" {
		t.Fatalf("Op = %q, want stat", convErr.Op)
	}
}

func TestConvertDelimitersUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	if err := os.WriteFile(src, []byte("a\tb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := ConvertDelimiters(src, filepath.Join(dir, "missing", "out.csv"), '\t', ',', SystemDefault)
	var convErr *ConvertError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConvertError, got %v", err)
	}
}

func TestCompleteBoundary(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"ascii", []byte("abc"), 3},
		{"complete multibyte", []byte("abé"), 4},
		{"split two-byte", []byte{'a', 0xC3}, 1},
		{"split three-byte", []byte{'a', 0xE6, 0x97}, 1},
		{"invalid passthrough", []byte{0xFF, 0xFF, 0xFF}, 3},
		{"empty", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := completeBoundary(tc.in); got != tc.want {
				t.Fatalf("completeBoundary(% X) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
