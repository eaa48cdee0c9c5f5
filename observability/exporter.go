package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

var ErrUnknownExporter = errors.New("[observability] unknown metrics exporter")

const (
	ExporterNone       = ""
	ExporterStdout     = "stdout"
	ExporterPrometheus = "prometheus"
)

// ShutdownFunc flushes and stops the meter provider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// NewConsoleMetricsExporter serves for test/dev environment.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	))), nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// stats are fetched by HTTP from the registerer's gatherer.
func NewPrometheusMetricsExporter(reg promclient.Registerer) (*metric.MeterProvider, error) {
	opts := make([]prometheus.Option, 0, 1)
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}

// InitMetricsExporter installs the selected exporter as the global otel
// meter provider. An empty kind keeps the otel no-op provider.
func InitMetricsExporter(kind string, reg promclient.Registerer) (ShutdownFunc, error) {
	var (
		mp  *metric.MeterProvider
		err error
	)
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ExporterNone:
		return noopShutdown, nil
	case ExporterStdout:
		mp, err = NewConsoleMetricsExporter(10*time.Second, 5*time.Second)
	case ExporterPrometheus:
		mp, err = NewPrometheusMetricsExporter(reg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, kind)
	}
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
