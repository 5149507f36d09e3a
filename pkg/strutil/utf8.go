package strutil

import "unicode/utf8"

// IsUTF8 reports whether text is well-formed UTF-8. Stray continuation
// bytes, 0xFE/0xFF, truncated and overlong sequences, UTF-16 surrogates and
// code points above U+10FFFF are all rejected.
func IsUTF8(text string) bool {
	return utf8.ValidString(text)
}
