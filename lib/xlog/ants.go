package xlog

import (
	"go.uber.org/zap/zapcore"
)

// AntsXLogger adapts the logger to ants.Logger. Ants only logs worker
// panics through it, so everything lands at error level.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	parent, ok := logger.(*xLogger)
	if !ok || parent == nil {
		return &AntsXLogger{logger: logger}
	}
	return &AntsXLogger{logger: parent.child("Ants")}
}
