package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger routes the fx lifecycle events of the simulator CLI into
// the xlog logger. Successful wiring steps are logged at debug level,
// failures at error level.
type FxXLogger struct {
	logger XLogger
}

func moduleField(module string) zap.Field {
	if module == "" {
		return zap.Skip()
	}
	return zap.String("module", module)
}

func (l *FxXLogger) hook(stage, function, caller string, runtime int64, err error) {
	fields := []zap.Field{
		zap.String("function", function),
		zap.String("caller", caller),
	}
	if runtime > 0 {
		fields = append(fields, zap.Int64("in", runtime))
	}
	if err != nil {
		l.logger.Error(err, "HOOK "+stage+" failed", fields...)
		return
	}
	l.logger.Debug("HOOK "+stage, fields...)
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.hook("OnStart executing", e.FunctionName, e.CallerName, 0, nil)
	case *fxevent.OnStartExecuted:
		l.hook("OnStart executed", e.FunctionName, e.CallerName, int64(e.Runtime), e.Err)
	case *fxevent.OnStopExecuting:
		l.hook("OnStop executing", e.FunctionName, e.CallerName, 0, nil)
	case *fxevent.OnStopExecuted:
		l.hook("OnStop executed", e.FunctionName, e.CallerName, int64(e.Runtime), e.Err)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "SUPPLY failed",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
				moduleField(e.ModuleName),
			)
			return
		}
		l.logger.Debug("SUPPLY", zap.String("type", e.TypeName), moduleField(e.ModuleName))
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("PROVIDE",
				zap.Bool("private", e.Private),
				zap.String("rtype", rtype),
				zap.String("constructor", e.ConstructorName),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "PROVIDE failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Replaced:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("REPLACE", zap.String("rtype", rtype), moduleField(e.ModuleName))
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "REPLACE failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Decorated:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("DECORATE",
				zap.String("rtype", rtype),
				zap.String("decorator", e.DecoratorName),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "DECORATE failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName), moduleField(e.ModuleName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "STOP failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("START failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "ROLLBACK failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "START failed")
			return
		}
		l.logger.Debug("RUNNING")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "LOGGER initialize failed")
			return
		}
		l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
	default:
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	parent, ok := logger.(*xLogger)
	if !ok || parent == nil {
		return &FxXLogger{logger: logger}
	}
	return &FxXLogger{logger: parent.child("Fx")}
}
