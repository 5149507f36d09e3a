package output

import (
	"github.com/sonemaro/cfgload/pkg/cfg"
	"github.com/sonemaro/cfgload/pkg/logger"
)

// stats summarises the loaded values
type stats struct {
	Parameters  int `json:"parameters" yaml:"parameters"`
	Set         int `json:"set" yaml:"set"`
	Unset       int `json:"unset" yaml:"unset"`
	MultiValues int `json:"multiValues" yaml:"multiValues"`
}

// calculateStats counts a parameter as set when it holds a non-zero value.
func (f *formatter) calculateStats(res *Result) *stats {
	f.log.Debug("Calculating value statistics")

	st := &stats{Parameters: len(res.Entries)}
	for _, entry := range res.Entries {
		set := false
		switch v := entry.Value.(type) {
		case int:
			set = v != 0
		case uint64:
			set = v != 0
		case string:
			set = v != ""
		case []string:
			set = len(v) > 0
			if entry.Kind == cfg.KindMultiString {
				st.MultiValues += len(v)
			}
		}

		if set {
			st.Set++
		} else {
			st.Unset++
		}
	}

	f.log.WithFields(logger.Fields{
		"parameters":  st.Parameters,
		"set":         st.Set,
		"unset":       st.Unset,
		"multiValues": st.MultiValues,
	}).Debug("Statistics calculated")

	return st
}
