package signalhandler

import (
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
)

// ExitInterrupted is the exit code used after SIGINT/SIGTERM
const ExitInterrupted = 130

var (
	defaultExit = os.Exit
	exit        = os.Exit
)

// SetupHandler runs cleanup and exits when the process is interrupted.
// A run has no cancellation; this only lets the manifest and log file be
// closed cleanly. The returned stop function detaches the handler.
func SetupHandler(cleanup func()) (stop func()) {
	// Create a channel to receive OS signals
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})

	// Register for specific signals
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Handle signals in a separate goroutine
	go func() {
		select {
		case <-sigChan:
			if cleanup != nil {
				cleanup()
			}
			exit(ExitInterrupted)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
		})
	}
}

// DefaultWorkers returns the worker count used when none is configured:
// the parallelism the Go runtime is allowed to use.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}
