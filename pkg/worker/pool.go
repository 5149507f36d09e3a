/*
Package worker runs independent tasks on a fixed number of goroutines with an
optional rate limit. Every submitted task yields exactly one Result, in
submission order, whether it succeeded or not.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 10, // task starts per second
	})

	pool.Start(ctx)
	for i, path := range files {
		pool.Submit(worker.Task{
			ID:   i,
			Name: path,
			Execute: func(ctx context.Context) (interface{}, error) {
				return nil, check(path)
			},
		})
	}

	results, err := pool.Wait()
*/
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sonemaro/cfgload/pkg/logger"
	"golang.org/x/time/rate"
)

// Pool defines the interface for a worker pool
type Pool interface {
	// Start launches the workers. Cancelling ctx stops pending tasks.
	Start(context.Context) error

	// Submit queues a task. It blocks while the queue is full.
	Submit(Task) error

	// Wait closes the queue, waits for every task and returns the results
	// ordered by submission.
	Wait() ([]Result, error)

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status

	// Stop cancels running tasks and waits briefly for workers to exit.
	Stop() error
}

// ShutdownTimeout bounds how long Stop waits for workers.
const ShutdownTimeout = 500 * time.Millisecond

type queuedTask struct {
	Task
	order int
}

type pool struct {
	config  Config
	log     logger.Logger
	tasks   chan queuedTask
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.RWMutex
	started  bool
	closed   bool
	stopping bool
	stopped  bool
	next     atomic.Int64

	resultsMu sync.Mutex
	results   []Result

	active    atomic.Int32
	completed atomic.Int64
	failed    atomic.Int64
	startTime time.Time
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &pool{
		config:  config,
		log:     log,
		tasks:   make(chan queuedTask, config.Workers*2),
		limiter: limiter,
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	p.log.WithFields(logger.Fields{
		"workers":   p.config.Workers,
		"rateLimit": p.config.RateLimit,
	}).Debug("Starting worker pool")

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return nil
}

func (p *pool) Submit(task Task) error {
	// Held for the send so Wait and Stop cannot close the queue under us.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("pool not started")
	}
	if p.closed {
		return fmt.Errorf("pool no longer accepts tasks")
	}
	order := int(p.next.Add(1) - 1)

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- queuedTask{Task: task, order: order}:
		return nil
	}
}

func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started && !p.stopped {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	p.closeQueue()
	p.mu.Unlock()

	p.wg.Wait()

	p.resultsMu.Lock()
	results := append([]Result(nil), p.results...)
	p.resultsMu.Unlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	return results, nil
}

func (p *pool) Stop() error {
	p.mu.Lock()
	if p.stopped || p.stopping {
		p.mu.Unlock()
		return nil
	}
	if !p.started {
		p.stopped = true
		p.mu.Unlock()
		return nil
	}

	p.stopping = true
	p.cancel()
	p.closeQueue()
	p.mu.Unlock()

	p.log.Debug("Stopping worker pool")

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
		err = fmt.Errorf("shutdown timed out")
	}

	p.mu.Lock()
	p.stopping = false
	p.stopped = true
	p.started = false
	p.mu.Unlock()

	return err
}

// closeQueue must be called with p.mu held.
func (p *pool) closeQueue() {
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
}

func (p *pool) GetStats() Stats {
	p.mu.RLock()
	status := p.status()
	start := p.startTime
	p.mu.RUnlock()

	var uptime time.Duration
	if !start.IsZero() {
		uptime = time.Since(start)
	}

	return Stats{
		ActiveWorkers:  int(p.active.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: int(p.completed.Load()),
		FailedTasks:    int(p.failed.Load()),
		Status:         status,
		Uptime:         uptime,
	}
}

func (p *pool) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.status()
}

func (p *pool) status() Status {
	switch {
	case p.stopping:
		return StatusShuttingDown
	case p.stopped || !p.started:
		return StatusStopped
	case p.active.Load() > 0 || len(p.tasks) > 0:
		return StatusProcessing
	default:
		return StatusIdle
	}
}

func (p *pool) worker(id int) {
	defer p.wg.Done()

	for qt := range p.tasks {
		res := Result{ID: qt.ID, Name: qt.Name, order: qt.order}

		if err := p.wait(); err != nil {
			res.Err = err
			p.record(id, res)
			continue
		}

		p.active.Add(1)
		res.Data, res.Err = qt.Execute(p.ctx)
		p.active.Add(-1)

		p.record(id, res)
	}
}

// wait blocks on the rate limiter. Tasks dequeued after cancellation fail
// with the context error without running.
func (p *pool) wait() error {
	if p.limiter != nil {
		if err := p.limiter.Wait(p.ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		return nil
	}
	return p.ctx.Err()
}

func (p *pool) record(workerID int, res Result) {
	if res.Err != nil {
		p.failed.Add(1)
		p.log.WithFields(logger.Fields{
			"worker": workerID,
			"task":   res.ID,
			"name":   res.Name,
			"error":  res.Err,
		}).Debug("Task failed")
	} else {
		p.completed.Add(1)
	}

	p.resultsMu.Lock()
	p.results = append(p.results, res)
	p.resultsMu.Unlock()
}
