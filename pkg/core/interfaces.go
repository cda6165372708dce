package core

import (
	"fmt"
	"sync/atomic"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

type loggerHolder struct{ Logger }

var diagnosticLogger atomic.Value

func init() {
	diagnosticLogger.Store(loggerHolder{NewDefaultLogger()})
}

// SetDiagnosticLogger replaces the logger that receives numeric diagnostics
// (e.g. normalizing a zero-length vector). A nil logger silences them.
func SetDiagnosticLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	diagnosticLogger.Store(loggerHolder{logger})
}

func diagnostics() Logger {
	return diagnosticLogger.Load().(loggerHolder).Logger
}
