package program

import (
	"context"
	"sync"
)

// localErrorLogger captures the first error returned by any of the
// routines launched by RunLocal(), and cancels all other routines.
// Subsequent errors tend to be cancelation errors caused by the first
// one, so they are discarded.
type localErrorLogger struct {
	lock       sync.Mutex
	firstError error
	cancel     context.CancelFunc
}

func (el *localErrorLogger) Log(err error) {
	el.lock.Lock()
	defer el.lock.Unlock()

	if el.firstError == nil {
		el.firstError = err
		el.cancel()
	}
}

// RunLocal runs a routine and all of the routines it spawns until
// completion, returning the first error that any of them returned.
// It is used to run a bounded amount of work in parallel, such as a
// batch of writes against a LongList performed by multiple writers.
//
// Compared to errgroup.Group, there is no separate Wait() function
// that needs to be called. Routines are placed in the same hierarchy
// of siblings and dependencies as RunMain(), meaning that helpers
// like progress reporters can be launched as dependencies that are
// only canceled once the actual work has completed.
func RunLocal(ctx context.Context, routine Routine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errorLogger := &localErrorLogger{cancel: cancel}
	run(ctx, errorLogger, routine)
	return errorLogger.firstError
}
