package cfg

import (
	"fmt"

	"github.com/sonemaro/cfgload/pkg/strutil"
)

// Kind identifies how a value is converted and stored.
type Kind int

const (
	// KindInteger is a scaled unsigned number stored in an int.
	KindInteger Kind = iota
	// KindString stores the raw value.
	KindString
	// KindMultiString collects every occurrence of a key.
	KindMultiString
	// KindUnsignedInteger is a scaled unsigned number stored in a uint64.
	KindUnsignedInteger
	// KindStringList stores a comma-separated list with items trimmed.
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindMultiString:
		return "multistring"
	case KindUnsignedInteger:
		return "uint64"
	case KindStringList:
		return "string_list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Requirement tells whether a parameter has to be present.
type Requirement int

const (
	// Optional parameters may be absent.
	Optional Requirement = iota
	// Mandatory parameters are checked once the whole file tree is parsed.
	Mandatory
)

func (r Requirement) String() string {
	if r == Mandatory {
		return "mandatory"
	}
	return "optional"
}

// Target is caller-owned storage for one parameter. Build one with Int,
// Uint64, String, StringList or MultiString; the parser only writes through
// the pointer given there.
type Target interface {
	// Kind reports how values for this target are converted.
	Kind() Kind

	// Value returns the value currently held by the caller's variable.
	Value() interface{}

	valid() bool
}

type intTarget struct{ p *int }
type uint64Target struct{ p *uint64 }
type stringTarget struct{ p *string }
type stringListTarget struct{ p *string }
type multiStringTarget struct{ p *[]string }

// Int stores a scaled number into *p, truncated to int.
func Int(p *int) Target { return &intTarget{p: p} }

// Uint64 stores a scaled number into *p.
func Uint64(p *uint64) Target { return &uint64Target{p: p} }

// String stores the value into *p.
func String(p *string) Target { return &stringTarget{p: p} }

// StringList stores the value into *p after trimming blanks around every
// comma-separated item.
func StringList(p *string) Target { return &stringListTarget{p: p} }

// MultiString appends every occurrence of the key to *p. *p may be nil or
// an empty slice; values already in it are kept.
func MultiString(p *[]string) Target { return &multiStringTarget{p: p} }

func (t *intTarget) Kind() Kind         { return KindInteger }
func (t *uint64Target) Kind() Kind      { return KindUnsignedInteger }
func (t *stringTarget) Kind() Kind      { return KindString }
func (t *stringListTarget) Kind() Kind  { return KindStringList }
func (t *multiStringTarget) Kind() Kind { return KindMultiString }

func (t *intTarget) Value() interface{}         { return *t.p }
func (t *uint64Target) Value() interface{}      { return *t.p }
func (t *stringTarget) Value() interface{}      { return *t.p }
func (t *stringListTarget) Value() interface{}  { return *t.p }
func (t *multiStringTarget) Value() interface{} { return append([]string(nil), *t.p...) }

func (t *intTarget) valid() bool         { return t.p != nil }
func (t *uint64Target) valid() bool      { return t.p != nil }
func (t *stringTarget) valid() bool      { return t.p != nil }
func (t *stringListTarget) valid() bool  { return t.p != nil }
func (t *multiStringTarget) valid() bool { return t.p != nil }

func (t *multiStringTarget) append(v string) {
	(*strutil.StringArray)(t.p).Append(v)
}

// Descriptor binds a key name to its storage and constraints.
type Descriptor struct {
	// Name is the key as written in the file.
	Name string

	// Target receives the converted value.
	Target Target

	// Required marks the parameter Mandatory or Optional.
	Required Requirement

	// Min and Max bound numeric kinds inclusively. Max == 0 means no
	// upper bound.
	Min uint64
	Max uint64

	// Suffixes lists the scale suffixes accepted for numeric kinds.
	// Empty means strutil.SizeSuffixes.
	Suffixes string
}

func (d *Descriptor) suffixes() string {
	if d.Suffixes == "" {
		return strutil.SizeSuffixes
	}
	return d.Suffixes
}
