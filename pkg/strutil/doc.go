/*
Package strutil holds the string helpers the config engine is built on:
trimming with explicit cut sets, UTF-8 validation, bounded unsigned integer
parsing with overflow detection, suffix-scaled numbers and list
normalisation.

Numeric literals are decimal digits optionally followed by one scale suffix.
Size suffixes are binary:

	K = 1024, M = 1024^2, G = 1024^3, T = 1024^4

Duration suffixes are in seconds:

	s = 1, m = 60, h = 3600, d = 86400, w = 604800

The caller chooses which suffixes are accepted:

	v, err := strutil.ParseScaledUint64("4K", strutil.SizeSuffixes) // 4096
	v, err  = strutil.ParseScaledUint64("2h", strutil.TimeSuffixes) // 7200

ParseScaledFloat is lenient: it reads the longest numeric
prefix and never reports an error. Use
ParseScaledUint64 when malformed input has to be rejected.
*/
package strutil
