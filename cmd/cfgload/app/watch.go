package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/sonemaro/cfgload/pkg/cfg"
	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/spf13/afero"
)

// WatchDebounce is how long Watch waits for a burst of file events to
// settle before reloading.
var WatchDebounce = 300 * time.Millisecond

// Watch dumps path like Dump, then dumps it again every time the file or
// anything it includes changes. A failing reload is reported on stdout and
// watching goes on. Watch returns when the application is shut down.
func (a *App) Watch(path string, opts *DumpOptions) (err error) {
	defer a.recoverPanic(&err)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	w := &watchState{
		App:     a,
		watcher: watcher,
		path:    path,
		opts:    opts,
		dirs:    make(map[string]bool),
	}
	if opts.OutputPath != "" {
		w.ignore, _ = filepath.Abs(opts.OutputPath)
	}

	a.log.WithFields(logger.Fields{
		"path":     path,
		"debounce": WatchDebounce,
	}).Info("Starting watch operation")

	w.reload()
	if len(w.dirs) == 0 {
		return fmt.Errorf("watch %s: no directory could be watched", path)
	}

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-a.ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			a.log.Info("Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			a.log.WithFields(logger.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("Config file changed")

			if debounce == nil {
				debounce = time.NewTimer(WatchDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(WatchDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Error("Watcher error")
		}
	}
}

type watchState struct {
	*App
	watcher *fsnotify.Watcher
	path    string
	opts    *DumpOptions
	ignore  string
	dirs    map[string]bool
}

// reload dumps the config once and extends the watch list with the
// directories of every file the parse touched.
func (w *watchState) reload() {
	touched := []string{filepath.Dir(w.path)}
	parser := w.newParser(cfg.WithVisitor(func(p string) {
		if info, err := w.fs.Stat(p); err == nil && info.IsDir() {
			touched = append(touched, p)
			return
		}
		touched = append(touched, filepath.Dir(p))
	}))

	if err := w.dump(w.path, w.opts, parser); err != nil {
		fail := color.New(color.FgRed, color.Bold)
		if w.colorEnabled(w.opts.OutputPath) {
			fail.EnableColor()
		} else {
			fail.DisableColor()
		}
		fmt.Fprintf(w.stdout, "%s %s: %v\n", fail.Sprint("FAIL"), w.path, err)
	}

	for _, dir := range touched {
		w.watch(dir)
	}
}

func (w *watchState) watch(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if w.dirs[dir] {
		return
	}
	if ok, _ := afero.DirExists(w.fs, dir); !ok {
		return
	}

	if err := w.watcher.Add(dir); err != nil {
		w.log.WithFields(logger.Fields{
			"dir":   dir,
			"error": err,
		}).Warn("Cannot watch directory")
		return
	}
	w.dirs[dir] = true

	w.log.WithFields(logger.Fields{
		"dir": dir,
	}).Debug("Watching directory")
}

func (w *watchState) relevant(event fsnotify.Event) bool {
	if event.Name == w.ignore {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
