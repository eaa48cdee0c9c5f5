package xlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type testMemOutWriter struct {
	lock sync.Mutex
	data []byte
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testMemOutWriter) Sync() error { return nil }

func (w *testMemOutWriter) String() string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return string(w.data)
}

func (w *testMemOutWriter) Reset() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.data = make([]byte, 0, 4096)
}

// lines decodes every JSON log line written so far.
func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	t.Helper()
	res := make([]map[string]any, 0, 8)
	scanner := bufio.NewScanner(bytes.NewBufferString(w.String()))
	for scanner.Scan() {
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		res = append(res, m)
	}
	return res
}

func newTestLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	t.Helper()
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	opts = append([]XLoggerOption{
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriteSyncer(w),
	}, opts...)
	return NewXLogger(opts...), w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	require.Equal(t, zapcore.DebugLevel, logLevel("TRACE").zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		in  string
		out zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" Warn ", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"fatal", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.out, getLogLevelOrDefault(tc.in), tc.in)
	}
}

func TestXLoggerOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})
	logger := NewXLogger(nil, WithXLoggerWriter(StdErr), WithXLoggerLevel(LogLevelWarn))
	require.Equal(t, "warn", logger.Level())
}

func TestXLoggerEnvLevel(t *testing.T) {
	t.Setenv(envLogLevel, "error")
	w := &testMemOutWriter{}
	logger := NewXLogger(WithXLoggerWriteSyncer(w))
	require.Equal(t, "error", logger.Level())
	logger.Warn("dropped")
	logger.Error(errors.New("boom"), "kept")
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
	require.Equal(t, "boom", lines[0]["error"])
	require.Equal(t, "ERROR", lines[0]["lvl"])
}

func TestXLoggerJSONLines(t *testing.T) {
	logger, w := newTestLogger(t)
	logger.Debug("d", zap.Int("key", 1))
	logger.Info("i", zap.String("mode", "avl"))
	logger.Warn("w")
	logger.Error(nil, "e")
	logger.Logf(zapcore.InfoLevel, "inserted %d into %s", 7, "bst")
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 5)
	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.Equal(t, float64(1), lines[0]["key"])
	require.Equal(t, "avl", lines[1]["mode"])
	require.Equal(t, "WARN", lines[2]["lvl"])
	require.NotContains(t, lines[3], "error")
	require.Equal(t, "inserted 7 into bst", lines[4]["msg"])
	for _, line := range lines {
		require.Contains(t, line, "ts")
		require.Contains(t, line, "callAt")
	}
}

func TestXLoggerIncreaseLogLevel(t *testing.T) {
	logger, w := newTestLogger(t)
	logger.IncreaseLogLevel(zapcore.InfoLevel)
	require.Equal(t, "info", logger.Level())
	logger.Debug("dropped")
	logger.Info("kept")
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("kept again")

	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "kept", lines[0]["msg"])
	require.Equal(t, "kept again", lines[1]["msg"])
}

func TestXLoggerContextFields(t *testing.T) {
	logger, w := newTestLogger(t,
		WithXLoggerContextFieldExtract("session", "sid"),
		WithXLoggerContextFieldExtract("mode"),
		WithXLoggerContextFieldExtract("trace", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
	)
	ctx := context.WithValue(context.Background(), ContextKey("session"), "s-1")

	logger.InfoContext(ctx, "first")
	ctx = context.WithValue(ctx, ContextKey("trace"), "t-9")
	logger.DebugContext(ctx, "second")
	logger.WarnContext(ctx, "third")
	logger.ErrorContext(ctx, errors.New("bad"), "fourth")
	logger.InfoContext(context.TODO(), "fifth")

	lines := w.lines(t)
	require.Len(t, lines, 5)
	require.Equal(t, "s-1", lines[0]["sid"])
	require.Equal(t, "nil", lines[0]["mode"])
	require.NotContains(t, lines[0], "trace")
	require.Equal(t, "t-9", lines[1]["trace"])
	require.Equal(t, "WARN", lines[2]["lvl"])
	require.Equal(t, "bad", lines[3]["error"])
	require.Equal(t, "nil", lines[4]["sid"])
}

type testBanner struct{}

func (b testBanner) JSON() string {
	return "{\"app\":\"xtree\"}"
}

func (b testBanner) PlainText() string {
	return "xtree"
}

func TestXLoggerBanner(t *testing.T) {
	printBanner = sync.Once{}
	logger, w := newTestLogger(t)
	logger.Banner(testBanner{})
	require.Equal(t, "{\"banner\":\"{\\\"app\\\":\\\"xtree\\\"}\"}\n", w.String())

	// Printed once per process.
	w.Reset()
	logger.Banner(testBanner{})
	require.Empty(t, w.String())

	printBanner = sync.Once{}
	logger, w = newTestLogger(t, WithXLoggerEncoder(PlainText))
	logger.Banner(testBanner{})
	require.Equal(t, "xtree\n", w.String())
}

func TestWrapCore(t *testing.T) {
	_, err := WrapCore(nil, componentCoreEncoderCfg)
	require.Error(t, err)

	w := &testMemOutWriter{}
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cc := newConsoleCore(lvl, JSON, w, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	require.NotNil(t, cc)
	require.Nil(t, newConsoleCore(lvl, JSON, nil, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder))

	wrapped, err := WrapCore(cc, componentCoreEncoderCfg)
	require.NoError(t, err)
	require.False(t, wrapped.Enabled(zapcore.DebugLevel))
	lvl.SetLevel(zapcore.DebugLevel)
	require.True(t, wrapped.Enabled(zapcore.DebugLevel))

	err = wrapped.With([]zap.Field{zap.String("key", "value")}).
		Write(zapcore.Entry{Level: zapcore.DebugLevel, LoggerName: "Test", Message: "m"}, nil)
	require.NoError(t, err)
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "Test", lines[0]["component"])
	require.Equal(t, "value", lines[0]["key"])
	require.NotContains(t, lines[0], "callAt")
}
