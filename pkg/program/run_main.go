package program

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// mainErrorLogger is used by RunMain() to capture errors returned by
// routines. Each error is logged, and the first one initiates
// shutdown of the program.
type mainErrorLogger struct {
	lock     sync.Mutex
	exitCode int
	shutdown bool
	cancel   context.CancelFunc
}

func (el *mainErrorLogger) Log(err error) {
	log.Print("Fatal error: ", err)
	el.startShutdown(1)
}

// startShutdown cancels all routines. The exit code of the first call
// is retained.
func (el *mainErrorLogger) startShutdown(exitCode int) {
	el.lock.Lock()
	defer el.lock.Unlock()

	if !el.shutdown {
		el.shutdown = true
		el.exitCode = exitCode
		el.cancel()
	}
}

func (el *mainErrorLogger) getExitCode() int {
	el.lock.Lock()
	defer el.lock.Unlock()

	return el.exitCode
}

var terminationSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// exitCodeForSignal returns the exit code that shells use for processes
// that were terminated by a signal.
func exitCodeForSignal(s os.Signal) int {
	if number, ok := s.(syscall.Signal); ok {
		return 128 + int(number)
	}
	return 1
}

// RunMain runs a program that supports graceful termination. Programs
// consist of a pool of routines that may have dependencies on each
// other. Programs terminate if one of the following cases occurs:
//
//   - The root routine and all of its siblings have terminated. In that
//     case the program terminates with exit code 0.
//
//   - One of the routines fails with a non-nil error. In that case the
//     program terminates with exit code 1.
//
//   - The program receives SIGINT or SIGTERM. In that case all
//     routines are canceled, and the program terminates with the exit
//     code corresponding to the signal once they have completed. This
//     gives routines the opportunity to persist state, such as a
//     snapshot of a LongList. Receiving a second signal causes the
//     program to terminate immediately.
//
// In case termination occurs, all remaining routines are canceled,
// respecting dependencies between these routines. This can for example
// be used to ensure a diagnostics HTTP server keeps running until a
// snapshot has been written.
func RunMain(routine Routine) {
	ctx, cancel := context.WithCancel(context.Background())
	errorLogger := &mainErrorLogger{
		cancel: cancel,
	}

	signalChan := make(chan os.Signal, 2)
	signal.Notify(signalChan, terminationSignals...)
	go func() {
		receivedSignal := <-signalChan
		log.Printf("Received %#v signal. Initiating graceful shutdown.", receivedSignal.String())
		errorLogger.startShutdown(exitCodeForSignal(receivedSignal))

		receivedSignal = <-signalChan
		log.Printf("Received %#v signal during graceful shutdown. Terminating immediately.", receivedSignal.String())
		os.Exit(exitCodeForSignal(receivedSignal))
	}()

	// Launch the initial routine and any goroutines that it spawns.
	run(ctx, errorLogger, routine)

	// If none of the routines failed and we didn't get signalled,
	// terminate with exit code zero.
	errorLogger.startShutdown(0)
	os.Exit(errorLogger.getExitCode())
}
