package cfg

import (
	"errors"
	"fmt"
)

var (
	ErrRecursion        = errors.New("include recursion limit exceeded")
	ErrOpen             = errors.New("cannot open config file")
	ErrRead             = errors.New("cannot read config file")
	ErrClose            = errors.New("cannot close config file")
	ErrNotUTF8          = errors.New("non-UTF-8 character")
	ErrNotKeyValue      = errors.New(`entry does not follow "parameter=value" notation`)
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrBadValue         = errors.New("wrong parameter value")
	ErrInclude          = errors.New("cannot resolve include")
	ErrNotDirectory     = errors.New("base path is not a directory")
	ErrMissingMandatory = errors.New("missing mandatory parameter")
	ErrInvalidSchema    = errors.New("invalid schema")
)

// RecursionError is returned when an include chain goes deeper than the
// parser's limit.
type RecursionError struct {
	File  string
	Level int
	Max   int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("recursion detected at include level %d (max %d), skipped %q", e.Level, e.Max, e.File)
}

func (e *RecursionError) Unwrap() error { return ErrRecursion }

// FileError reports an open, read or close failure. Op is one of ErrOpen,
// ErrRead or ErrClose.
type FileError struct {
	Op   error
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v [%s]: %v", e.Op, e.File, e.Err)
}

func (e *FileError) Unwrap() []error { return compact(e.Op, e.Err) }

// LineError points at the offending line of a config file.
type LineError struct {
	File    string
	Line    int
	Content string
	Err     error
	Cause   error
}

func (e *LineError) Error() string {
	msg := fmt.Sprintf("%v [%s] in config file [%s], line %d", e.Err, e.Content, e.File, e.Line)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LineError) Unwrap() []error { return compact(e.Err, e.Cause) }

// IncludeError reports an Include target that could not be resolved.
type IncludeError struct {
	File   string
	Line   int
	Target string
	Err    error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%v %q in config file [%s], line %d: %v", ErrInclude, e.Target, e.File, e.Line, e.Err)
}

func (e *IncludeError) Unwrap() []error { return compact(ErrInclude, e.Err) }

// MissingError names a mandatory parameter that was never set.
type MissingError struct {
	Name string
	File string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%v [%s] in config file [%s]", ErrMissingMandatory, e.Name, e.File)
}

func (e *MissingError) Unwrap() error { return ErrMissingMandatory }

// SchemaError describes a descriptor rejected by NewSchema.
type SchemaError struct {
	Index  int
	Name   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: descriptor %d (%q): %s", ErrInvalidSchema, e.Index, e.Name, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrInvalidSchema }

func compact(errs ...error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
