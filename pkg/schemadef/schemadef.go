/*
Package schemadef describes a cfg.Schema in YAML so a schema can be chosen at
run time instead of compiled in. Build allocates storage for every parameter
and returns it as Values, ready to be printed after a parse.

Definition file:

	parameters:
	  - name: Timeout
	    type: integer
	    mandatory: true
	    min: 1
	    max: 300
	    suffixes: smhdw
	  - name: Hosts
	    type: string_list

Types are integer, uint64, string, string_list and multistring.
*/
package schemadef

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sonemaro/cfgload/pkg/cfg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrUnknownType is returned for a parameter type outside the five kinds.
var ErrUnknownType = errors.New("unknown parameter type")

// Parameter is one entry of a definition file.
type Parameter struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Mandatory bool   `yaml:"mandatory,omitempty"`
	Min       uint64 `yaml:"min,omitempty"`
	Max       uint64 `yaml:"max,omitempty"`
	Suffixes  string `yaml:"suffixes,omitempty"`
}

// Definition is a parsed definition file.
type Definition struct {
	Parameters []Parameter `yaml:"parameters"`
}

// Default returns the built-in demo schema.
func Default() *Definition {
	return &Definition{
		Parameters: []Parameter{
			{Name: "test_int", Type: cfg.KindInteger.String(), Mandatory: true, Min: 0, Max: 100},
			{Name: "test_str", Type: cfg.KindString.String()},
			{Name: "test_str_list", Type: cfg.KindStringList.String()},
			{Name: "test_mul_str", Type: cfg.KindMultiString.String()},
			{Name: "test_uint64", Type: cfg.KindUnsignedInteger.String(), Min: 0, Max: 12121212121},
		},
	}
}

// Parse decodes a definition from YAML. Unknown fields are rejected and an
// empty document yields an empty definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode schema definition: %w", err)
	}

	for i, p := range def.Parameters {
		if _, err := ParseKind(p.Type); err != nil {
			return nil, fmt.Errorf("parameter %d (%q): %w", i, p.Name, err)
		}
	}

	return &def, nil
}

// Load reads and parses the definition file at path.
func Load(fs afero.Fs, path string) (*Definition, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read schema definition: %w", err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseKind maps a type name to its cfg.Kind.
func ParseKind(name string) (cfg.Kind, error) {
	for _, k := range []cfg.Kind{
		cfg.KindInteger,
		cfg.KindUnsignedInteger,
		cfg.KindString,
		cfg.KindStringList,
		cfg.KindMultiString,
	} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Build allocates fresh storage for every parameter and returns the schema
// writing into it. Each call returns independent storage, so the results of
// separate Build calls can be parsed into concurrently.
func (d *Definition) Build() (*cfg.Schema, *Values, error) {
	values := &Values{
		names:   make([]string, 0, len(d.Parameters)),
		targets: make([]cfg.Target, 0, len(d.Parameters)),
	}
	descs := make([]cfg.Descriptor, 0, len(d.Parameters))

	for i, p := range d.Parameters {
		kind, err := ParseKind(p.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter %d (%q): %w", i, p.Name, err)
		}

		target := newTarget(kind)
		req := cfg.Optional
		if p.Mandatory {
			req = cfg.Mandatory
		}

		descs = append(descs, cfg.Descriptor{
			Name:     p.Name,
			Target:   target,
			Required: req,
			Min:      p.Min,
			Max:      p.Max,
			Suffixes: p.Suffixes,
		})
		values.names = append(values.names, p.Name)
		values.targets = append(values.targets, target)
	}

	schema, err := cfg.NewSchema(descs...)
	if err != nil {
		return nil, nil, err
	}
	return schema, values, nil
}

func newTarget(kind cfg.Kind) cfg.Target {
	switch kind {
	case cfg.KindInteger:
		return cfg.Int(new(int))
	case cfg.KindUnsignedInteger:
		return cfg.Uint64(new(uint64))
	case cfg.KindStringList:
		return cfg.StringList(new(string))
	case cfg.KindMultiString:
		return cfg.MultiString(new([]string))
	default:
		return cfg.String(new(string))
	}
}
