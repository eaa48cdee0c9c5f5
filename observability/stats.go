package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	once        sync.Once
	appStatsErr error
)

func meterName(prefix, name string) string {
	builder := &strings.Builder{}
	builder.WriteString(prefix)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(strings.TrimSpace(name))
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

type statsOptions struct {
	mp metric.MeterProvider
}

type StatsOption func(*statsOptions)

// WithMeterProvider replaces the global otel meter provider.
func WithMeterProvider(mp metric.MeterProvider) StatsOption {
	return func(opts *statsOptions) {
		opts.mp = mp
	}
}

// TreeStats counts what the insertions did to the trees, labelled by
// the tree mode. A nil *TreeStats records nothing.
type TreeStats struct {
	inserts    metric.Int64Counter
	duplicates metric.Int64Counter
	rotations  metric.Int64Counter
	recolors   metric.Int64Counter
	rejects    metric.Int64Counter
	height     metric.Int64Histogram
}

func NewTreeStats(name string, opts ...StatsOption) *TreeStats {
	o := &statsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.mp == nil {
		o.mp = otel.GetMeterProvider()
	}
	meter := o.mp.Meter(
		meterName("xtree/tree", name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	return &TreeStats{
		inserts: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.inserts",
			metric.WithDescription(`Keys attached to a tree.`),
		)),
		duplicates: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.duplicates",
			metric.WithDescription(`Insertions ignored because the key was present.`),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.rotations",
			metric.WithDescription(`Single rotations applied while rebalancing.`),
		)),
		recolors: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.recolors",
			metric.WithDescription(`Red-black recolor steps.`),
		)),
		rejects: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.rejects",
			metric.WithDescription(`Inputs rejected before touching a tree.`),
		)),
		height: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xtree.tree.height",
			metric.WithDescription(`Tree height after an operation.`),
			metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 12, 16, 24, 32, 64, 128),
		)),
	}
}

func modeAttr(mode string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("mode", mode))
}

// RecordInsert records one finished insertion.
func (stats *TreeStats) RecordInsert(ctx context.Context, mode string, inserted bool, rotations, recolors int) {
	if stats == nil {
		return
	}
	attr := modeAttr(mode)
	if !inserted {
		stats.duplicates.Add(ctx, 1, attr)
		return
	}
	stats.inserts.Add(ctx, 1, attr)
	if rotations > 0 {
		stats.rotations.Add(ctx, int64(rotations), attr)
	}
	if recolors > 0 {
		stats.recolors.Add(ctx, int64(recolors), attr)
	}
}

func (stats *TreeStats) RecordHeight(ctx context.Context, mode string, height int) {
	if stats == nil {
		return
	}
	stats.height.Record(ctx, int64(height), modeAttr(mode))
}

func (stats *TreeStats) RecordReject(ctx context.Context, mode string) {
	if stats == nil {
		return
	}
	stats.rejects.Add(ctx, 1, modeAttr(mode))
}

type appStats struct {
	ctx              context.Context
	shutdownCallback func(ctx context.Context) error
	goroutines       metric.Int64ObservableUpDownCounter
	processes        metric.Int64ObservableUpDownCounter
}

func (stats *appStats) waitForShutdown() {
	if stats == nil || stats.shutdownCallback == nil {
		return
	}
	go func() {
		<-stats.ctx.Done()
		_ = stats.shutdownCallback(context.Background())
	}()
}

// InitAppStats starts the go runtime instrumentation and the process
// gauges once per process. The shutdown callback (an exporter's) runs
// when ctx is done. The instrumentation error of the first call is
// returned by every call.
func InitAppStats(ctx context.Context, name string, shutdown func(ctx context.Context) error) error {
	once.Do(func() {
		meter := otel.Meter(
			meterName("xtree/app", name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		stats := &appStats{
			ctx:              ctx,
			shutdownCallback: shutdown,
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"app.core.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			)),
			processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"app.core.processes",
				metric.WithDescription(`The application processes' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.GOMAXPROCS(0)))
					return nil
				}),
			)),
		}
		if appStatsErr = otelruntime.Start(); appStatsErr != nil {
			return
		}
		stats.waitForShutdown()
	})
	return appStatsErr
}
