package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/sim"
)

type streams struct {
	in  io.Reader
	out io.Writer
}

type xtreeBanner struct{}

func (xtreeBanner) JSON() string {
	return `{"app":"xtree","desc":"binary search tree simulator"}`
}

func (xtreeBanner) PlainText() string {
	return "xtree, binary search tree simulator"
}

func newLogger() xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerContextFieldExtract(string(sim.ContextKeySession), xlog.ContextKeyMapToOmitempty),
	)
}

func newTreeStats(lc fx.Lifecycle, cfg Config, logger xlog.XLogger) (*observability.TreeStats, error) {
	var (
		reg        *promclient.Registry
		registerer promclient.Registerer
	)
	kind := strings.ToLower(strings.TrimSpace(cfg.Metrics))
	if kind == observability.ExporterPrometheus {
		reg = promclient.NewRegistry()
		registerer = reg
	}
	shutdown, err := observability.InitMetricsExporter(kind, registerer)
	if err != nil {
		return nil, err
	}

	appCtx, cancel := context.WithCancel(context.Background())
	if kind != observability.ExporterNone {
		if err = observability.InitAppStats(appCtx, "xtree", nil); err != nil {
			cancel()
			return nil, multierr.Append(err, shutdown(context.Background()))
		}
	}
	var srv *http.Server
	if reg != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if srv == nil {
				return nil
			}
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "metrics endpoint stopped")
				}
			}()
			logger.Info("metrics endpoint listening", zap.String("addr", ln.Addr().String()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			var err error
			if srv != nil {
				err = srv.Shutdown(ctx)
			}
			return multierr.Append(err, shutdown(ctx))
		},
	})
	return observability.NewTreeStats("xtree"), nil
}

func newOperationLog(logger xlog.XLogger) sim.OperationLog {
	return sim.NewXLogOperationLog(logger)
}

func newRenderer(s streams) sim.Renderer[int64] {
	return sim.NewOutlineRenderer[int64](s.out)
}

func newSession(
	cfg Config,
	renderer sim.Renderer[int64],
	oplog sim.OperationLog,
	stats *observability.TreeStats,
) (*sim.Session[int64], error) {
	sessionID := cfg.SessionID
	if sessionID == "" {
		nanoID, err := id.ClassicNanoID(10)
		if err != nil {
			return nil, err
		}
		sessionID = nanoID()
	}
	return sim.NewSession[int64](cfg.Mode, renderer, oplog,
		sim.WithSessionID(sessionID),
		sim.WithTreeStats(stats),
	)
}

func newComparer(lc fx.Lifecycle, logger xlog.XLogger, stats *observability.TreeStats) (*sim.Comparer, error) {
	c, err := sim.NewComparer(sim.WithCompareLogger(logger), sim.WithCompareStats(stats))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(c.Release))
	return c, nil
}

type jobParams struct {
	fx.In

	Cfg        Config
	Streams    streams
	Logger     xlog.XLogger
	Session    *sim.Session[int64]
	Comparer   *sim.Comparer
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
}

// registerJob runs the command once the app has started and shuts the
// app down with its exit code when it returns.
func registerJob(p jobParams) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Logger.Banner(xtreeBanner{})
			go func() {
				defer close(done)
				code := 0
				if err := run(ctx, p.Cfg, p.Streams, p.Session, p.Comparer); err != nil {
					p.Logger.Error(err, "xtree failed")
					code = 1
				}
				_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func newApp(cfg Config, s streams, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(cfg, s),
		fx.Provide(
			newLogger,
			newTreeStats,
			newOperationLog,
			newRenderer,
			newSession,
			newComparer,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Options(opts...),
		fx.Invoke(registerJob),
	)
}

// readTokens takes the keys from the flag, else the file, else stdin.
func readTokens(keys, file string, in io.Reader) ([]string, error) {
	if strings.TrimSpace(keys) != "" {
		return sim.SplitKeys(keys), nil
	}
	if file != "" {
		path := filepath.Clean(file)
		return sim.LoadKeys(filepath.Dir(path), filepath.Base(path))
	}
	if in == nil {
		return nil, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return sim.SplitKeys(string(data)), nil
}

func run(ctx context.Context, cfg Config, s streams, session *sim.Session[int64], comparer *sim.Comparer) error {
	if cfg.Follow != "" {
		path := filepath.Clean(cfg.Follow)
		return sim.Follow(ctx, session, filepath.Dir(path), filepath.Base(path))
	}

	tokens, err := readTokens(cfg.Keys, cfg.File, s.in)
	if err != nil {
		return err
	}
	if cfg.Compare {
		return compare(ctx, comparer, tokens, s.out)
	}
	for _, token := range tokens {
		if _, err = session.InsertText(ctx, token); err != nil && !errors.Is(err, tree.ErrNonOrderableKey) {
			return err
		}
	}
	return nil
}

func compare(ctx context.Context, comparer *sim.Comparer, tokens []string, out io.Writer) error {
	keys := make([]int64, 0, len(tokens))
	skipped := 0
	for _, token := range tokens {
		key, err := tree.ParseKey[int64](token)
		if err != nil {
			skipped++
			continue
		}
		keys = append(keys, key)
	}
	reports, err := sim.Compare(ctx, comparer, keys)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "mode\tlen\theight\trotations\trecolors\tduplicates\n")
	for _, r := range reports {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", r.Mode, r.Len, r.Height, r.Rotations, r.Recolors, r.Duplicates)
	}
	if skipped > 0 {
		_, _ = fmt.Fprintf(tw, "skipped %d non-numeric keys\n", skipped)
	}
	return tw.Flush()
}
