package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

type renderer interface {
	render(Status, int) string
}

type palette struct {
	bar  *color.Color
	fail *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		bar:  color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		p.bar.DisableColor()
		p.fail.DisableColor()
	} else {
		p.bar.EnableColor()
		p.fail.EnableColor()
	}
	return p
}

type barRenderer struct {
	palette
}

func (r *barRenderer) render(s Status, width int) string {
	counter := fmt.Sprintf(" %d/%d", s.Done, s.Total)
	if s.Failed > 0 {
		counter += " " + r.fail.Sprintf("%d failed", s.Failed)
	}

	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	ratio := percent(s) / 100
	filled := int(float64(barWidth) * ratio)

	var b strings.Builder
	b.WriteString("\r[")
	b.WriteString(r.bar.Sprint(strings.Repeat("=", filled)))
	if filled < barWidth {
		b.WriteString(">")
		b.WriteString(strings.Repeat(" ", barWidth-filled-1))
	}
	b.WriteString("]")
	b.WriteString(fmt.Sprintf(" %3.0f%%", ratio*100))
	b.WriteString(counter)
	return b.String()
}

type simpleRenderer struct {
	palette
}

func (r *simpleRenderer) render(s Status, width int) string {
	line := fmt.Sprintf("\rchecked %d of %d", s.Done, s.Total)
	if s.Failed > 0 {
		line += ", " + r.fail.Sprintf("%d failed", s.Failed)
	}
	if s.Current != "" {
		line += " (" + truncate(s.Current, width-len(line)-3) + ")"
	}
	return line
}

func percent(s Status) float64 {
	if s.Total <= 0 {
		return 100
	}
	p := float64(s.Done) * 100 / float64(s.Total)
	if p > 100 {
		p = 100
	}
	return p
}

// truncate keeps the tail of a path, which is the part that differs.
func truncate(s string, max int) string {
	if max <= 3 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Millisecond)
	if d < time.Second {
		return d.String()
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
