package schemadef

import (
	"github.com/sonemaro/cfgload/pkg/cfg"
)

// Entry is one loaded parameter.
type Entry struct {
	Name  string      `json:"name" yaml:"name"`
	Kind  cfg.Kind    `json:"-" yaml:"-"`
	Value interface{} `json:"value" yaml:"value"`
}

// Values is the storage allocated by Build, in definition order.
type Values struct {
	names   []string
	targets []cfg.Target
}

// Entries returns the current value of every parameter.
func (v *Values) Entries() []Entry {
	entries := make([]Entry, len(v.names))
	for i, name := range v.names {
		entries[i] = Entry{
			Name:  name,
			Kind:  v.targets[i].Kind(),
			Value: v.targets[i].Value(),
		}
	}
	return entries
}

// Get returns the current value of the named parameter.
func (v *Values) Get(name string) (interface{}, bool) {
	for i, n := range v.names {
		if n == name {
			return v.targets[i].Value(), true
		}
	}
	return nil, false
}

// Len returns the number of parameters.
func (v *Values) Len() int { return len(v.names) }
