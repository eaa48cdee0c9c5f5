package sim

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/xlog"
)

// OperationLog receives one human-readable line per session operation.
type OperationLog interface {
	Log(ctx context.Context, msg string, fields ...zap.Field)
	// Reset starts a new log, a mode switch clears the previous lines.
	Reset()
}

type nopOperationLog struct{}

func (nopOperationLog) Log(context.Context, string, ...zap.Field) {}
func (nopOperationLog) Reset()                                    {}

var _ OperationLog = (*XLogOperationLog)(nil)

// XLogOperationLog writes the lines as info entries. A log stream
// cannot be cleared, so Reset only leaves a marker at debug level.
type XLogOperationLog struct {
	logger xlog.XLogger
}

func NewXLogOperationLog(logger xlog.XLogger) *XLogOperationLog {
	return &XLogOperationLog{logger: logger}
}

func (l *XLogOperationLog) Log(ctx context.Context, msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.InfoContext(ctx, msg, fields...)
}

func (l *XLogOperationLog) Reset() {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug("operations log reset")
}

var _ OperationLog = (*MemOperationLog)(nil)

// MemOperationLog keeps the messages in memory, fields are dropped.
type MemOperationLog struct {
	lock    sync.Mutex
	entries []string
}

func (l *MemOperationLog) Log(_ context.Context, msg string, _ ...zap.Field) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.entries = append(l.entries, msg)
}

func (l *MemOperationLog) Reset() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.entries = l.entries[:0]
}

// Entries returns a copy of the lines logged since the last reset.
func (l *MemOperationLog) Entries() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return slices.Clone(l.entries)
}
