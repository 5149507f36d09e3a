package cfg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/sonemaro/cfgload/pkg/strutil"
	"github.com/spf13/afero"
)

const (
	// IncludeKey is the reserved key that pulls in other files.
	IncludeKey = "Include"

	// MaxIncludeLevel is the default depth limit for Include chains. The
	// top-level file is level 0.
	MaxIncludeLevel = 10

	// ListDelimiter separates items of a StringList value.
	ListDelimiter = ','

	ltrimChars = "\t "
	rtrimChars = ltrimChars + "\r\n"

	maxLineLen = 32 * strutil.MaxStringLen
)

// Option configures a Parser.
type Option func(*Parser)

// WithMaxIncludeLevel overrides the Include depth limit.
func WithMaxIncludeLevel(n int) Option {
	return func(p *Parser) {
		if n >= 0 {
			p.maxLevel = n
		}
	}
}

// WithVisitor registers fn to be called with every file opened and every
// include directory listed, in parse order.
func WithVisitor(fn func(path string)) Option {
	return func(p *Parser) { p.visit = fn }
}

// Parser loads config files into a Schema. A Parser keeps no state between
// calls; concurrent Parse calls are safe as long as they use different
// schemas.
type Parser struct {
	fs       afero.Fs
	log      logger.Logger
	maxLevel int
	visit    func(path string)
}

// NewParser returns a Parser reading through fs and reporting diagnostics
// to log. A nil log discards diagnostics.
func NewParser(fs afero.Fs, log logger.Logger, opts ...Option) *Parser {
	if log == nil {
		log = logger.Nop()
	}

	p := &Parser{
		fs:       fs,
		log:      log,
		maxLevel: MaxIncludeLevel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile parses path from the OS filesystem, logging diagnostics to
// stderr.
func ParseFile(path string, schema *Schema, optional, strict bool) error {
	log := logger.NewLogger(logger.Config{Component: "cfg"})
	return NewParser(afero.NewOsFs(), log).Parse(path, schema, optional, strict)
}

// Parse reads path and every file it includes, storing recognised values
// into the schema's targets, then checks mandatory parameters.
//
// With optional set, a top-level file that cannot be opened is not an
// error and leaves the targets untouched. With strict set, keys missing from
// the schema abort the parse. The first error stops everything; targets may
// hold values assigned before it.
func (p *Parser) Parse(path string, schema *Schema, optional, strict bool) error {
	if schema == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}

	run := &parseRun{
		Parser:   p,
		schema:   schema,
		strict:   strict,
		assigned: make(map[string]bool, schema.Len()),
	}

	opened, err := run.parseFile(path, 0, optional)
	if err != nil {
		return err
	}
	if !opened {
		return nil
	}

	return run.checkMandatory(path)
}

func (r *parseRun) visited(path string) {
	if r.visit != nil {
		r.visit(path)
	}
}

// parseRun is the state of one Parse call.
type parseRun struct {
	*Parser
	schema   *Schema
	strict   bool
	assigned map[string]bool
}

// parseFile reports whether the file was opened. Only an optional file may
// come back unopened without an error.
func (r *parseRun) parseFile(path string, level int, optional bool) (bool, error) {
	if level > r.maxLevel {
		r.log.WithFields(logger.Fields{
			"file":  path,
			"level": level,
			"max":   r.maxLevel,
		}).Error("Recursion detected, skipped processing of config file")
		return false, &RecursionError{File: path, Level: level, Max: r.maxLevel}
	}

	file, err := r.fs.Open(path)
	if err != nil {
		if optional {
			r.log.WithFields(logger.Fields{
				"file":  path,
				"error": err,
			}).Debug("Optional config file not available")
			return false, nil
		}

		r.log.WithFields(logger.Fields{
			"file":  path,
			"error": err,
		}).Error("Cannot open config file")
		return false, &FileError{Op: ErrOpen, File: path, Err: err}
	}

	r.log.WithFields(logger.Fields{
		"file":  path,
		"level": level,
	}).Debug("Parsing config file")
	r.visited(path)

	err = r.parseLines(file, path, level)

	if cerr := file.Close(); cerr != nil && err == nil {
		r.log.WithFields(logger.Fields{
			"file":  path,
			"error": cerr,
		}).Error("Cannot close config file")
		err = &FileError{Op: ErrClose, File: path, Err: cerr}
	}

	return true, err
}

func (r *parseRun) parseLines(src io.Reader, path string, level int) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, strutil.MaxStringLen), maxLineLen)

	for lineno := 1; scanner.Scan(); lineno++ {
		line := strutil.LTrim(scanner.Text(), ltrimChars)
		line, _ = strutil.RTrim(line, rtrimChars)

		if line == "" || line[0] == '#' {
			continue
		}

		if !strutil.IsUTF8(line) {
			return r.lineError(path, lineno, line, ErrNotUTF8, nil)
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return r.lineError(path, lineno, line, ErrNotKeyValue, nil)
		}

		key, _ := strutil.RTrim(line[:eq], rtrimChars)
		value := strutil.LTrim(line[eq+1:], ltrimChars)

		if key == IncludeKey {
			if err := r.include(path, lineno, value, level); err != nil {
				return err
			}
			continue
		}

		desc, ok := r.schema.Lookup(key)
		if !ok {
			if r.strict {
				return r.lineError(path, lineno, key, ErrUnknownParameter, nil)
			}
			r.log.WithFields(logger.Fields{
				"file":      path,
				"line":      lineno,
				"parameter": key,
			}).Trace("Skipping unknown parameter")
			continue
		}

		if err := r.assign(desc, value); err != nil {
			return r.lineError(path, lineno, desc.Name, ErrBadValue, err)
		}

		r.log.WithFields(logger.Fields{
			"file":      path,
			"line":      lineno,
			"parameter": key,
		}).Trace("Parameter set")
	}

	if err := scanner.Err(); err != nil {
		r.log.WithFields(logger.Fields{
			"file":  path,
			"error": err,
		}).Error("Cannot read config file")
		return &FileError{Op: ErrRead, File: path, Err: err}
	}

	return nil
}

// assign converts value according to the descriptor's kind and writes it
// through the target.
func (r *parseRun) assign(desc *Descriptor, value string) error {
	switch t := desc.Target.(type) {
	case *intTarget:
		v, err := parseNumber(desc, value)
		if err != nil {
			return err
		}
		*t.p = int(v)
	case *uint64Target:
		v, err := parseNumber(desc, value)
		if err != nil {
			return err
		}
		*t.p = v
	case *stringTarget:
		*t.p = value
	case *stringListTarget:
		*t.p = strutil.NormalizeList(value, ListDelimiter)
	case *multiStringTarget:
		t.append(value)
	default:
		return fmt.Errorf("unsupported target %T", desc.Target)
	}

	r.assigned[desc.Name] = true
	return nil
}

func parseNumber(desc *Descriptor, value string) (uint64, error) {
	v, err := strutil.ParseScaledUint64(value, desc.suffixes())
	if err != nil {
		return 0, err
	}

	if v < desc.Min || (desc.Max != 0 && v > desc.Max) {
		if desc.Max == 0 {
			return 0, fmt.Errorf("%w: %d is below %d", strutil.ErrOutOfRange, v, desc.Min)
		}
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", strutil.ErrOutOfRange, v, desc.Min, desc.Max)
	}
	return v, nil
}

// checkMandatory runs once per Parse, after the top-level file and all of
// its includes are done.
func (r *parseRun) checkMandatory(path string) error {
	for _, d := range r.schema.descs {
		if d.Required != Mandatory {
			continue
		}

		missing := false
		switch t := d.Target.(type) {
		case *intTarget:
			missing = *t.p == 0
		case *stringTarget:
			missing = !r.assigned[d.Name] && *t.p == ""
		case *stringListTarget:
			missing = !r.assigned[d.Name] && *t.p == ""
		}

		if missing {
			r.log.WithFields(logger.Fields{
				"file":      path,
				"parameter": d.Name,
			}).Error("Missing mandatory parameter")
			return &MissingError{Name: d.Name, File: path}
		}
	}

	return nil
}

func (r *parseRun) lineError(path string, lineno int, content string, kind, cause error) error {
	fields := logger.Fields{
		"file":    path,
		"line":    lineno,
		"content": content,
	}
	if cause != nil {
		fields["error"] = cause
	}
	r.log.WithFields(fields).Error(kind.Error())

	return &LineError{File: path, Line: lineno, Content: content, Err: kind, Cause: cause}
}

// IsNotFound reports whether err came from a config file that does not exist.
func IsNotFound(err error) bool {
	var fe *FileError
	if !errors.As(err, &fe) || fe.Op != ErrOpen {
		return false
	}
	return errors.Is(fe.Err, fs.ErrNotExist)
}
