package strutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Binary size units.
const (
	Kibibyte = 1024
	Mebibyte = 1024 * Kibibyte
	Gibibyte = 1024 * Mebibyte
	Tebibyte = 1024 * Gibibyte
)

// Durations in seconds.
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour
	SecondsPerWeek   = 7 * SecondsPerDay
)

// Suffix sets accepted by ParseScaledUint64.
const (
	SizeSuffixes = "KMGT"
	TimeSuffixes = "smhdw"
)

var (
	// ErrNotNumber is returned for empty input or a non-digit character.
	ErrNotNumber = errors.New("not an unsigned integer")

	// ErrOverflow is returned when the value does not fit in 64 bits.
	ErrOverflow = errors.New("value exceeds 64 bits")

	// ErrOutOfRange is returned when the value violates [min,max].
	ErrOutOfRange = errors.New("value out of range")
)

// NumError records a failed conversion.
type NumError struct {
	Func  string
	Input string
	Err   error
}

func (e *NumError) Error() string {
	return fmt.Sprintf("strutil.%s: parsing %q: %v", e.Func, e.Input, e.Err)
}

func (e *NumError) Unwrap() error {
	return e.Err
}

// SuffixFactor returns the multiplier of a scale suffix, 1 for anything else.
func SuffixFactor(c byte) uint64 {
	switch c {
	case 'K':
		return Kibibyte
	case 'M':
		return Mebibyte
	case 'G':
		return Gibibyte
	case 'T':
		return Tebibyte
	case 's':
		return 1
	case 'm':
		return SecondsPerMinute
	case 'h':
		return SecondsPerHour
	case 'd':
		return SecondsPerDay
	case 'w':
		return SecondsPerWeek
	default:
		return 1
	}
}

// ParseUintRange parses at most n leading bytes of s as decimal digits and
// checks the result against [min,max]. Every parsed byte must be a digit.
// The result is truncated to bitSize bits (8, 16, 32 or 64), the way a
// narrower output variable would receive it.
func ParseUintRange(s string, n int, bitSize int, min, max uint64) (uint64, error) {
	const fn = "ParseUintRange"

	switch bitSize {
	case 8, 16, 32, 64:
	default:
		return 0, &NumError{Func: fn, Input: s, Err: fmt.Errorf("invalid bit size %d", bitSize)}
	}

	if s == "" || n <= 0 {
		return 0, &NumError{Func: fn, Input: s, Err: ErrNotNumber}
	}
	if n > len(s) {
		n = len(s)
	}

	var value uint64
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, &NumError{Func: fn, Input: s, Err: ErrNotNumber}
		}

		d := uint64(c - '0')
		if value > (math.MaxUint64-d)/10 {
			return 0, &NumError{Func: fn, Input: s, Err: ErrOverflow}
		}
		value = value*10 + d
	}

	if value < min || value > max {
		return 0, &NumError{Func: fn, Input: s, Err: ErrOutOfRange}
	}

	if bitSize < 64 {
		value &= 1<<uint(bitSize) - 1
	}
	return value, nil
}

// ParseScaledUint64 parses a decimal integer with an optional trailing scale
// suffix. The suffix only counts when its character is listed in suffixes;
// otherwise the whole string has to be digits.
func ParseScaledUint64(s, suffixes string) (uint64, error) {
	const fn = "ParseScaledUint64"

	if s == "" {
		return 0, &NumError{Func: fn, Input: s, Err: ErrNotNumber}
	}

	factor := uint64(1)
	digits := s
	if last := s[len(s)-1]; strings.IndexByte(suffixes, last) >= 0 {
		factor = SuffixFactor(last)
		digits = s[:len(s)-1]
	}

	value, err := ParseUintRange(digits, len(digits), 64, 0, math.MaxUint64)
	if err != nil {
		var numErr *NumError
		if errors.As(err, &numErr) {
			return 0, &NumError{Func: fn, Input: s, Err: numErr.Err}
		}
		return 0, err
	}

	if factor > 1 && value > math.MaxUint64/factor {
		return 0, &NumError{Func: fn, Input: s, Err: ErrOverflow}
	}
	return value * factor, nil
}

// ParseScaledFloat converts the longest numeric prefix of s and multiplies
// it by the factor of the last character of s. Malformed input yields a
// best-effort value (0 when there is no numeric prefix); it never fails.
func ParseScaledFloat(s string) float64 {
	if s == "" {
		return 0
	}

	prefix := floatPrefix(s)
	if prefix == "" {
		return 0
	}

	// Out of range prefixes come back as ±Inf with a range error; keep ±Inf.
	value, _ := strconv.ParseFloat(prefix, 64)
	return value * float64(SuffixFactor(s[len(s)-1]))
}

// floatPrefix returns the longest prefix of s (after leading white space)
// that has the shape [sign]digits[.digits][(e|E)[sign]digits].
func floatPrefix(s string) string {
	s = strings.TrimLeft(s, " \t\n\v\f\r")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			mantissa++
		}
	}
	if mantissa == 0 {
		return ""
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
