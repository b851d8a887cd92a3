package util

import (
	"log"
)

// ErrorLogger may be used to report errors. Implementations may decide
// to log, mutate, redirect and discard them. This interface is used in
// places where errors are generated asynchronously, meaning they cannot
// be returned to the caller directly.
type ErrorLogger interface {
	Log(err error)
}

type defaultErrorLogger struct{}

func (l defaultErrorLogger) Log(err error) {
	log.Print(err)
}

// DefaultErrorLogger writes errors using Go's standard logging package.
var DefaultErrorLogger ErrorLogger = defaultErrorLogger{}

type prefixingErrorLogger struct {
	base   ErrorLogger
	prefix string
}

// NewPrefixingErrorLogger creates an ErrorLogger that prepends a fixed
// string to the message of every error, before forwarding it to
// another ErrorLogger. This can be used to identify which background
// routine generated an error.
func NewPrefixingErrorLogger(base ErrorLogger, prefix string) ErrorLogger {
	return &prefixingErrorLogger{
		base:   base,
		prefix: prefix,
	}
}

func (l *prefixingErrorLogger) Log(err error) {
	l.base.Log(StatusWrap(err, l.prefix))
}
