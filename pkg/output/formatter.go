/*
Package output renders the parameters loaded by a parse as a tree, JSON or
YAML. Tree output can be coloured and every format can carry a short
summary of the values.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatTree,
		WithStats:  true,
		WithColors: true,
	}, log)

	text, err := formatter.Format(&output.Result{
		File:    "/etc/app.conf",
		Entries: values.Entries(),
	})
*/
package output

import (
	"fmt"

	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/sonemaro/cfgload/pkg/schemadef"
)

// Format represents the output format type
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTree, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithStats  bool
	WithColors bool
}

// Result is what a parse produced for one config file.
type Result struct {
	File    string
	Entries []schemadef.Entry
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(*Result) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	if log == nil {
		log = logger.Nop()
	}
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders the result according to the configured format
func (f *formatter) Format(res *Result) (string, error) {
	if res == nil {
		msg := "nil result provided for formatting"
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}

	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withStats":  f.config.WithStats,
		"withColors": f.config.WithColors,
		"entries":    len(res.Entries),
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatTree:
		return f.formatTree(res)
	case FormatJSON:
		return f.formatJSON(res)
	case FormatYAML:
		return f.formatYAML(res)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
}
