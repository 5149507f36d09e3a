package strutil

import (
	"fmt"
	"strings"
)

// MaxStringLen is the classic line buffer size of the config format.
// Lines may be longer; the parser allows a multiple of it.
const MaxStringLen = 2048

// LTrim strips any leading bytes found in cutset.
func LTrim(s, cutset string) string {
	return strings.TrimLeft(s, cutset)
}

// RTrim strips any trailing bytes found in cutset and reports how many bytes
// were removed.
func RTrim(s, cutset string) (string, int) {
	trimmed := strings.TrimRight(s, cutset)
	return trimmed, len(s) - len(trimmed)
}

// LRTrim strips cutset bytes from both ends.
func LRTrim(s, cutset string) string {
	s, _ = RTrim(s, cutset)
	return LTrim(s, cutset)
}

// Dsprintf formats into *dest, replacing whatever it held, and returns the
// new string. It lets a loop rebuild one scratch value per iteration.
func Dsprintf(dest *string, format string, args ...interface{}) string {
	s := fmt.Sprintf(format, args...)
	if dest != nil {
		*dest = s
	}
	return s
}
