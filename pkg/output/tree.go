package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/cfgload/pkg/cfg"
	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/sonemaro/cfgload/pkg/schemadef"
)

// formatTree prints the file as the root and one branch per parameter.
// MultiString values get a child per item.
func (f *formatter) formatTree(res *Result) (string, error) {
	f.log.Debug("Formatting tree output")

	var builder strings.Builder
	builder.WriteString(f.paint(res.File, color.FgBlue, color.Bold))
	builder.WriteString("\n")

	for i, entry := range res.Entries {
		f.formatTreeEntry(&builder, entry, i == len(res.Entries)-1)
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		stats := f.calculateStats(res)
		builder.WriteString("\nStatistics:\n")
		builder.WriteString(fmt.Sprintf("  Parameters: %d\n", stats.Parameters))
		builder.WriteString(fmt.Sprintf("  Set: %d\n", stats.Set))
		builder.WriteString(fmt.Sprintf("  Unset: %d\n", stats.Unset))
		builder.WriteString(fmt.Sprintf("  Multi-values: %d\n", stats.MultiValues))
	}

	return builder.String(), nil
}

func (f *formatter) formatTreeEntry(builder *strings.Builder, entry schemadef.Entry, isLast bool) {
	f.log.WithFields(logger.Fields{
		"parameter": entry.Name,
		"kind":      entry.Kind,
		"isLast":    isLast,
	}).Trace("Formatting tree entry")

	branch, prefix := "├── ", "│   "
	if isLast {
		branch, prefix = "└── ", "    "
	}

	builder.WriteString(branch)
	builder.WriteString(f.paint(entry.Name, color.FgCyan))

	if entry.Kind != cfg.KindMultiString {
		builder.WriteString(" = ")
		builder.WriteString(fmt.Sprint(entry.Value))
		builder.WriteString("\n")
		return
	}

	items, _ := entry.Value.([]string)
	builder.WriteString(fmt.Sprintf(" [%d]\n", len(items)))
	for i, item := range items {
		if i == len(items)-1 {
			builder.WriteString(prefix + "└── ")
		} else {
			builder.WriteString(prefix + "├── ")
		}
		builder.WriteString(item)
		builder.WriteString("\n")
	}
}

// paint applies attrs when colours are on. Colour is forced so the caller's
// terminal detection decides, not the library's.
func (f *formatter) paint(s string, attrs ...color.Attribute) string {
	if !f.config.WithColors {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}
