// Package transcoder detects the text encoding of delimited files and
// rewrites their delimiters without re-encoding the content.
//
// Detection is a pure byte-order-mark probe: the first three bytes of a file
// decide between UTF-8, UTF-16 little/big endian, and an unmarked
// system-default fallback. Conversion replaces one literal delimiter
// character with another while preserving the original encoding bit-for-bit
// everywhere else, switching between a whole-file pass for small inputs and
// a bounded-memory streaming pass for large ones.
//
// The package performs no locale lookups and presents no UI; callers supply
// the destination delimiter and decide when conversion runs.
package transcoder
