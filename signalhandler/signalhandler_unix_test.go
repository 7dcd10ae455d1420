//go:build unix

package signalhandler

import (
	"syscall"
	"testing"
	"time"
)

func TestSetupHandler_RunsCleanupOnSignal(t *testing.T) {
	codes := make(chan int, 1)
	exit = func(code int) { codes <- code }
	defer func() { exit = defaultExit }()

	cleaned := make(chan struct{}, 1)
	stop := SetupHandler(func() { cleaned <- struct{}{} })
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup not called")
	}
	if code := <-codes; code != ExitInterrupted {
		t.Fatalf("exit code %d, want %d", code, ExitInterrupted)
	}
}
