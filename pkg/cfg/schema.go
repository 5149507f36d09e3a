package cfg

import "strconv"

// Schema is an ordered, validated set of descriptors. Order only matters for
// the mandatory check, which reports the first missing parameter.
type Schema struct {
	descs []Descriptor
	index map[string]int
}

// NewSchema validates descs and builds a Schema. It rejects empty or
// duplicate names, the reserved key Include, missing targets and numeric
// bounds with Min > Max.
func NewSchema(descs ...Descriptor) (*Schema, error) {
	s := &Schema{
		descs: make([]Descriptor, len(descs)),
		index: make(map[string]int, len(descs)),
	}
	copy(s.descs, descs)

	for i, d := range s.descs {
		switch {
		case d.Name == "":
			return nil, &SchemaError{Index: i, Reason: "empty name"}
		case d.Name == IncludeKey:
			return nil, &SchemaError{Index: i, Name: d.Name, Reason: "name is reserved"}
		case d.Target == nil || !d.Target.valid():
			return nil, &SchemaError{Index: i, Name: d.Name, Reason: "nil target"}
		}

		if prev, dup := s.index[d.Name]; dup {
			return nil, &SchemaError{Index: i, Name: d.Name, Reason: "duplicate of descriptor " + strconv.Itoa(prev)}
		}

		kind := d.Target.Kind()
		if (kind == KindInteger || kind == KindUnsignedInteger) && d.Max != 0 && d.Min > d.Max {
			return nil, &SchemaError{Index: i, Name: d.Name, Reason: "min greater than max"}
		}

		s.index[d.Name] = i
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on an invalid schema. It is meant
// for schemas written as package-level literals.
func MustSchema(descs ...Descriptor) *Schema {
	s, err := NewSchema(descs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the descriptor registered under name.
func (s *Schema) Lookup(name string) (*Descriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.descs[i], true
}

// Descriptors returns a copy of the descriptors in schema order.
func (s *Schema) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descs))
	copy(out, s.descs)
	return out
}

// Len returns the number of descriptors.
func (s *Schema) Len() int {
	return len(s.descs)
}
