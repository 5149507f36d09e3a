/*
Package app is the application container behind the cfgload commands. It
owns the logger, the filesystem, the worker pool used for batch checks and
the signal handling that cancels them.

Usage:

	application := app.New(&conf)
	defer application.Shutdown()

	err := application.Dump("/etc/app.conf", &app.DumpOptions{Format: output.FormatTree})
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/fatih/color"
	"github.com/sonemaro/cfgload/internal/config"
	"github.com/sonemaro/cfgload/pkg/cfg"
	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/sonemaro/cfgload/pkg/output"
	"github.com/sonemaro/cfgload/pkg/progress"
	"github.com/sonemaro/cfgload/pkg/schemadef"
	"github.com/sonemaro/cfgload/pkg/worker"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// DumpOptions defines the options for a dump operation
type DumpOptions struct {
	// Format of the printed values
	Format output.Format

	// OutputPath receives the output instead of stdout when set
	OutputPath string

	// Optional tolerates a missing config file
	Optional bool

	// WithStats appends a summary of the values
	WithStats bool
}

// ErrNotChecked marks files skipped because the check was interrupted.
var ErrNotChecked = errors.New("not checked")

// CheckResult is the outcome of checking one config file
type CheckResult struct {
	File string
	Err  error
}

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	tracker progress.Progress

	ctx         context.Context
	cancel      context.CancelFunc
	stopSignals func()

	mu   sync.Mutex
	pool worker.Pool
}

// Option customises an App
type Option func(*App)

// WithFs replaces the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithStdout redirects normal output.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithStderr redirects the progress line.
func WithStderr(w io.Writer) Option {
	return func(a *App) { a.stderr = w }
}

// WithProgress forces a progress reporter for Check.
func WithProgress(p progress.Progress) Option {
	return func(a *App) { a.tracker = p }
}

// WithLogger replaces the stderr JSON logger.
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// New creates a new application instance
func New(conf *config.Config, opts ...Option) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: conf,
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.NewLogger(logger.Config{
			Verbosity: conf.Verbose,
			Output:    os.Stderr,
		})
	}

	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": conf.Workers,
		"strict":  conf.Strict,
		"schema":  conf.Schema,
		"verbose": conf.Verbose,
	}).Debug("Application initialized")

	return a
}

// Dump loads one config file and prints the resulting values
func (a *App) Dump(path string, opts *DumpOptions) (err error) {
	defer a.recoverPanic(&err)

	a.log.WithFields(logger.Fields{
		"path":     path,
		"format":   opts.Format,
		"optional": opts.Optional,
	}).Info("Starting dump operation")

	return a.dump(path, opts, a.newParser())
}

func (a *App) dump(path string, opts *DumpOptions, parser *cfg.Parser) error {
	def, err := a.loadDefinition()
	if err != nil {
		return err
	}

	schema, values, err := def.Build()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	if err := parser.Parse(path, schema, opts.Optional, a.config.Strict); err != nil {
		return err
	}

	formatter := output.NewFormatter(output.Config{
		Format:     opts.Format,
		WithStats:  opts.WithStats,
		WithColors: a.colorEnabled(opts.OutputPath),
	}, a.log)

	text, err := formatter.Format(&output.Result{File: path, Entries: values.Entries()})
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}

	return a.writeOutput(text, opts.OutputPath)
}

// Check parses every file on the worker pool and reports one line per file.
// It fails when at least one file does not load.
func (a *App) Check(paths []string) (results []CheckResult, err error) {
	defer a.recoverPanic(&err)

	def, err := a.loadDefinition()
	if err != nil {
		return nil, err
	}
	// Fail on a broken definition before any file is touched.
	if _, _, err := def.Build(); err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}

	pool, err := worker.NewPool(worker.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
		Logger:    a.log,
	})
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	a.mu.Lock()
	a.pool = pool
	a.mu.Unlock()

	if err := pool.Start(a.ctx); err != nil {
		return nil, err
	}

	tracker := a.newProgress()
	tracker.Start(len(paths))

	parser := a.newParser()
	for i, path := range paths {
		path := path
		err := pool.Submit(worker.Task{
			ID:   i,
			Name: path,
			Execute: func(ctx context.Context) (interface{}, error) {
				schema, _, err := def.Build()
				if err == nil {
					err = parser.Parse(path, schema, false, a.config.Strict)
				}
				tracker.Advance(path, err)
				return nil, err
			},
		})
		if err != nil {
			a.log.WithFields(logger.Fields{
				"path":  path,
				"error": err,
			}).Warn("Task not submitted")
			break
		}
	}

	done, err := pool.Wait()
	tracker.Complete()
	if err != nil {
		return nil, err
	}

	results = make([]CheckResult, len(paths))
	for i, path := range paths {
		results[i] = CheckResult{File: path, Err: ErrNotChecked}
	}
	for _, r := range done {
		results[r.ID] = CheckResult{File: r.Name, Err: r.Err}
	}

	failed := a.printCheck(results)

	stats := pool.GetStats()
	a.log.WithFields(logger.Fields{
		"files":     len(paths),
		"completed": stats.CompletedTasks,
		"failed":    stats.FailedTasks,
		"uptime":    stats.Uptime,
	}).Info("Check operation completed")

	if failed > 0 {
		return results, fmt.Errorf("%d of %d config files failed", failed, len(paths))
	}
	return results, nil
}

func (a *App) printCheck(results []CheckResult) int {
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	if a.colorEnabled("") {
		ok.EnableColor()
		fail.EnableColor()
	} else {
		ok.DisableColor()
		fail.DisableColor()
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(a.stdout, "%s %s: %v\n", fail.Sprint("FAIL"), r.File, r.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "%s   %s\n", ok.Sprint("ok"), r.File)
	}
	return failed
}

// Shutdown cancels pending work and releases signal handlers
func (a *App) Shutdown() error {
	a.log.Debug("Shutting down application")

	a.cancel()
	if a.stopSignals != nil {
		a.stopSignals()
	}

	a.mu.Lock()
	pool := a.pool
	a.mu.Unlock()

	if pool != nil {
		if err := pool.Stop(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Error("Failed to stop worker pool")
			return err
		}
	}
	return nil
}

// newProgress draws on stderr only when a person is watching it.
func (a *App) newProgress() progress.Progress {
	if a.tracker != nil {
		return a.tracker
	}
	if !progress.IsTerminal(a.stderr) {
		return progress.Nop()
	}
	return progress.New(a.stderr, progress.Config{
		Style:   progress.StyleBar,
		NoColor: a.config.NoColor,
	}, a.log.WithFields(logger.Fields{"component": "progress"}))
}

func (a *App) loadDefinition() (*schemadef.Definition, error) {
	if a.config.Schema == "" {
		a.log.Debug("Using built-in schema")
		return schemadef.Default(), nil
	}

	def, err := schemadef.Load(a.fs, a.config.Schema)
	if err != nil {
		a.log.WithFields(logger.Fields{
			"schema": a.config.Schema,
			"error":  err,
		}).Error("Failed to load schema definition")
		return nil, err
	}

	a.log.WithFields(logger.Fields{
		"schema":     a.config.Schema,
		"parameters": len(def.Parameters),
	}).Debug("Schema definition loaded")
	return def, nil
}

func (a *App) newParser(opts ...cfg.Option) *cfg.Parser {
	opts = append([]cfg.Option{cfg.WithMaxIncludeLevel(a.config.MaxIncludeLevel)}, opts...)
	return cfg.NewParser(a.fs,
		a.log.WithFields(logger.Fields{"component": "cfg"}),
		opts...)
}

// writeOutput writes the formatted output to the specified destination
func (a *App) writeOutput(content, outputPath string) error {
	if outputPath == "" {
		_, err := fmt.Fprintln(a.stdout, content)
		return err
	}

	if err := afero.WriteFile(a.fs, outputPath, []byte(content+"\n"), 0644); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  outputPath,
		}).Error("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"path": outputPath,
	}).Info("Output written successfully")
	return nil
}

// colorEnabled reports whether output going to outputPath should be
// coloured: only stdout, only a terminal, and not with --no-color.
func (a *App) colorEnabled(outputPath string) bool {
	if a.config.NoColor || outputPath != "" {
		return false
	}
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *App) recoverPanic(err *error) {
	if r := recover(); r != nil {
		a.log.WithFields(logger.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Recovered from panic")
		*err = fmt.Errorf("internal error: %v", r)
	}
}
