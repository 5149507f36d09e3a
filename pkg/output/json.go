package output

import (
	"encoding/json"
	"time"

	"github.com/sonemaro/cfgload/pkg/cfg"
	"github.com/sonemaro/cfgload/pkg/logger"
)

// jsonEntry represents a parameter in JSON and YAML output
type jsonEntry struct {
	Name  string      `json:"name" yaml:"name"`
	Type  string      `json:"type" yaml:"type"`
	Value interface{} `json:"value" yaml:"value"`
}

// jsonOutput represents the complete JSON output
type jsonOutput struct {
	File       string       `json:"file" yaml:"file"`
	Parameters []*jsonEntry `json:"parameters" yaml:"parameters"`
	Statistics *stats       `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Generated  time.Time    `json:"generated" yaml:"generated"`
}

func (f *formatter) formatJSON(res *Result) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.buildOutput(res), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}

func (f *formatter) buildOutput(res *Result) *jsonOutput {
	out := &jsonOutput{
		File:       res.File,
		Parameters: make([]*jsonEntry, 0, len(res.Entries)),
		Generated:  time.Now(),
	}

	for _, entry := range res.Entries {
		f.log.WithFields(logger.Fields{
			"parameter": entry.Name,
			"kind":      entry.Kind,
		}).Trace("Converting entry")

		value := entry.Value
		if entry.Kind == cfg.KindMultiString {
			if items, _ := value.([]string); items == nil {
				value = []string{}
			}
		}

		out.Parameters = append(out.Parameters, &jsonEntry{
			Name:  entry.Name,
			Type:  entry.Kind.String(),
			Value: value,
		})
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		out.Statistics = f.calculateStats(res)
	}

	return out
}
