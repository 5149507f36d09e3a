// Package glob resolves the target of an Include directive: a plain file, a
// directory, or a directory plus a file-name pattern with '*' wildcards.
package glob

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sonemaro/cfgload/pkg/strutil"
)

const (
	// Separator is the path separator understood in Include targets.
	Separator = '/'

	// Wildcard matches any run of characters inside one file name.
	Wildcard = '*'
)

var (
	// ErrWildcardNotLast is returned when a wildcard appears before the final
	// path component.
	ErrWildcardNotLast = errors.New("glob pattern should be the last component of the path")

	// ErrNotAbsolute is returned for a wildcard glob that is not an absolute path.
	ErrNotAbsolute = errors.New("path should be absolute")
)

// PathError records the glob that failed to split.
type PathError struct {
	Glob string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Glob, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Split breaks an Include target like "/etc/app.conf.d/p*.conf" into the
// directory "/etc/app.conf.d" and the file-name pattern "p*.conf".
//
// A target without a wildcard is returned unchanged with an empty pattern,
// unless it ends in a separator: then the separators are trimmed and the
// pattern "*" marks it as a directory. The root "/" is kept as "/".
func Split(glob string) (path, pattern string, err error) {
	star := strings.IndexByte(glob, Wildcard)

	if star < 0 {
		path = glob
	} else {
		if strings.IndexByte(glob[star+1:], Separator) >= 0 {
			return "", "", &PathError{Glob: glob, Err: ErrWildcardNotLast}
		}

		sep := strings.LastIndexByte(glob[:star], Separator)
		if sep < 0 || glob[0] != Separator {
			return "", "", &PathError{Glob: glob, Err: ErrNotAbsolute}
		}

		path = glob[:sep]
		pattern = glob[sep+1:]
	}

	path, trimmed := strutil.RTrim(path, string(Separator))
	if trimmed != 0 && pattern == "" {
		pattern = string(Wildcard)
	}

	if path == "" && glob != "" && glob[0] == Separator {
		path = string(Separator)
	}

	return path, pattern, nil
}

// Match reports whether name matches pattern. Patterns are literal runs
// separated by '*': a leading run must match at the start of name, a
// trailing run at the end, and runs in between anywhere after the previous
// match. An empty pattern only matches an empty name.
func Match(name, pattern string) bool {
	f, p := 0, 0

	for {
		if p == len(pattern) {
			return f == len(name)
		}

		for p < len(pattern) && pattern[p] == Wildcard {
			p++
		}

		q := p
		for q < len(pattern) && pattern[q] != Wildcard {
			q++
		}
		literal := pattern[p:q]

		// anchored at the start
		if p == 0 {
			if !strings.HasPrefix(name[f:], literal) {
				return false
			}
			f += len(literal)
			p = q
			continue
		}

		// anchored at the end
		if q == len(pattern) {
			return strings.HasSuffix(name[f:], literal)
		}

		idx := strings.Index(name[f:], literal)
		if idx < 0 {
			return false
		}
		f += idx + len(literal)
		p = q
	}
}
