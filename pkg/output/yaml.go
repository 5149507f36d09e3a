package output

import (
	"github.com/sonemaro/cfgload/pkg/logger"
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(res *Result) (string, error) {
	f.log.Debug("Formatting YAML output")

	// Same document as JSON output
	bytes, err := yaml.Marshal(f.buildOutput(res))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
