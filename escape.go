package routematch

import (
	"unicode"
	"unicode/utf8"
)

// Bitmaps used to check whether a byte has a special meaning.
var reservedPatternBytes [16]byte
var reservedCaptureBytes [16]byte

// reservedPattern reports whether byte b ends a literal run in a matcher string.
func reservedPattern(b byte) bool {
	return b < utf8.RuneSelf && reservedPatternBytes[b%16]&(1<<(b/16)) != 0
}

// reservedCapture reports whether byte b can never be part of a single-segment capture.
func reservedCapture(b byte) bool {
	return b < utf8.RuneSelf && reservedCaptureBytes[b%16]&(1<<(b/16)) != 0
}

func init() {
	for _, b := range []byte(`/?&#={}!()`) {
		reservedPatternBytes[b%16] |= 1 << (b / 16)
	}
	for _, b := range []byte(`/?&#={}`) {
		reservedCaptureBytes[b%16] |= 1 << (b / 16)
	}
}

// isValidCaptureCodePoint reports whether r may appear in captured text.
// Many captures additionally accept the path separator.
func isValidCaptureCodePoint(r rune, many bool) bool {
	if unicode.IsSpace(r) {
		return false
	}
	if r == '/' {
		return many
	}
	if r < utf8.RuneSelf {
		return !reservedCapture(byte(r))
	}

	return r != utf8.RuneError
}

// validCapturePrefix returns the length in bytes of the longest prefix of s made of valid capture code points.
func validCapturePrefix(s string, many bool) int {
	for i, r := range s {
		if !isValidCaptureCodePoint(r, many) {
			return i
		}
	}

	return len(s)
}
