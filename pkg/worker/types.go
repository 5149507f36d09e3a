package worker

import (
	"context"
	"time"

	"github.com/sonemaro/cfgload/pkg/logger"
)

// Task is one unit of work, typically the check of a single config file.
type Task struct {
	// ID is copied to the Result.
	ID int

	// Name labels the task in logs, e.g. the config file path.
	Name string

	// Execute does the work. The context is cancelled when the pool stops.
	Execute func(context.Context) (interface{}, error)
}

// Result is the outcome of a Task. Failed tasks produce a Result too, with
// Err set.
type Result struct {
	ID   int
	Name string
	Data interface{}
	Err  error

	order int
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit caps task starts per second, 0 for unlimited
	RateLimit int

	// Logger receives pool diagnostics. Nil discards them.
	Logger logger.Logger
}

// Status represents the current state of the worker pool
type Status string

const (
	StatusIdle         Status = "idle"
	StatusProcessing   Status = "processing"
	StatusShuttingDown Status = "shutting_down"
	StatusStopped      Status = "stopped"
)

// Stats is a snapshot of the pool counters
type Stats struct {
	ActiveWorkers  int
	QueuedTasks    int
	CompletedTasks int
	FailedTasks    int
	Status         Status
	Uptime         time.Duration
}
