package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/cfgload/pkg/logger"
)

// exitInterrupted is the status used when a second signal forces an exit.
const exitInterrupted = 130

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling cancels the application context on the first SIGINT
// or SIGTERM and exits on the second.
func (a *App) setupSignalHandling() {
	state := &signalState{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	a.stopSignals = func() {
		signal.Stop(sigChan)
		select {
		case <-done:
		default:
			close(done)
		}
	}

	go a.handleSignals(sigChan, done, state)
}

func (a *App) handleSignals(sigChan <-chan os.Signal, done <-chan struct{}, state *signalState) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.log.Warn("Received second interrupt, exiting")
				os.Exit(exitInterrupted)
			}

			a.log.Info("Interrupted, cancelling pending work")
			a.cancel()
		}
	}
}
