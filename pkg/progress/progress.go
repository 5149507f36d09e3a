/*
Package progress draws a single self-overwriting status line while cfgload
checks a batch of config files. It is meant for an interactive stderr; use
Nop when the stream is redirected.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sonemaro/cfgload/pkg/logger"
	"golang.org/x/term"
)

const defaultWidth = 80

type progress struct {
	config   Config
	log      logger.Logger
	writer   io.Writer
	renderer renderer
	width    int

	mu       sync.Mutex
	status   Status
	lastLine int
}

// New creates a progress line that writes to w
func New(w io.Writer, config Config, log logger.Logger) Progress {
	if log == nil {
		log = logger.Nop()
	}
	if config.Style == "" {
		config.Style = StyleBar
	}

	p := &progress{
		config: config,
		log:    log,
		writer: w,
		width:  config.Width,
	}
	if p.width == 0 {
		p.width = terminalWidth(w)
	}

	pal := newPalette(config.NoColor)
	switch config.Style {
	case StyleSimple:
		p.renderer = &simpleRenderer{pal}
	default:
		p.renderer = &barRenderer{pal}
	}

	p.log.WithFields(logger.Fields{
		"style":   p.config.Style,
		"width":   p.width,
		"noColor": p.config.NoColor,
	}).Debug("Created new progress instance")

	return p
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func (p *progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = Status{Total: total, StartTime: time.Now()}
	p.draw()
}

func (p *progress) Advance(file string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Done++
	p.status.Current = file
	if err != nil {
		p.status.Failed++
	}
	p.draw()
}

func (p *progress) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Current = ""
	p.draw()
	elapsed := formatDuration(time.Since(p.status.StartTime))
	fmt.Fprintf(p.writer, " in %s\n", elapsed)

	p.log.WithFields(logger.Fields{
		"total":   p.status.Total,
		"failed":  p.status.Failed,
		"elapsed": elapsed,
	}).Debug("Progress completed")
}

func (p *progress) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// draw must be called with mu held. Leftovers of a longer previous line
// are blanked out.
func (p *progress) draw() {
	line := p.renderer.render(p.status, p.width)
	pad := p.lastLine - len(line)
	p.lastLine = len(line)
	if pad > 0 {
		line += fmt.Sprintf("%*s\r%s", pad, "", line)
	}
	_, _ = io.WriteString(p.writer, line)
}

type nop struct {
	mu     sync.Mutex
	status Status
}

// Nop returns a Progress that only counts.
func Nop() Progress { return &nop{} }

func (n *nop) Start(total int) {
	n.mu.Lock()
	n.status = Status{Total: total, StartTime: time.Now()}
	n.mu.Unlock()
}

func (n *nop) Advance(file string, err error) {
	n.mu.Lock()
	n.status.Done++
	n.status.Current = file
	if err != nil {
		n.status.Failed++
	}
	n.mu.Unlock()
}

func (n *nop) Complete() {}

func (n *nop) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}
