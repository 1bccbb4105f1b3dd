package rdb

import "github.com/go-logr/logr"

// leveledLogger adapts logr to the
// retryablehttp.LeveledLogger interface.
type leveledLogger struct {
	log logr.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...any) {
	l.log.Error(nil, msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...any) {
	l.log.V(2).Info(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.log.V(4).Info(msg, keysAndValues...)
}
