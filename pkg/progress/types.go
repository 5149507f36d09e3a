package progress

import "time"

// Style represents the type of progress visualization
type Style string

const (
	// StyleBar shows a progress bar with percentage
	StyleBar Style = "bar"

	// StyleSimple shows a plain counter
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// Width is the maximum line width (0 = auto-detect)
	Width int

	// NoColor disables colored output
	NoColor bool
}

// Status is a snapshot of a batch of config file checks
type Status struct {
	Total     int
	Done      int
	Failed    int
	Current   string
	StartTime time.Time
}

// Progress reports how far a batch of checks has got.
// Implementations are safe for concurrent use.
type Progress interface {
	// Start resets the counters for total files
	Start(total int)

	// Advance records one finished file
	Advance(file string, err error)

	// Complete prints the final line and moves to the next line
	Complete()

	// Status returns the current snapshot
	Status() Status
}
