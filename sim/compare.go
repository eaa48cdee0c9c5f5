package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

// Report sums up one tree built from the whole key sequence.
type Report struct {
	Mode       tree.Mode
	Len        int64
	Height     int
	Rotations  int
	Recolors   int
	Duplicates int
}

type compareOptions struct {
	workers int
	logger  xlog.XLogger
	stats   *observability.TreeStats
}

type CompareOption func(*compareOptions)

func WithCompareWorkers(n int) CompareOption {
	return func(opts *compareOptions) {
		if n > 0 {
			opts.workers = n
		}
	}
}

func WithCompareLogger(logger xlog.XLogger) CompareOption {
	return func(opts *compareOptions) {
		opts.logger = logger
	}
}

func WithCompareStats(stats *observability.TreeStats) CompareOption {
	return func(opts *compareOptions) {
		opts.stats = stats
	}
}

// Comparer builds the trees of a comparison on a worker pool. Each tree
// is created, filled and measured by a single worker, nothing is shared.
type Comparer struct {
	pool *ants.Pool
	opts compareOptions
}

func NewComparer(opts ...CompareOption) (*Comparer, error) {
	c := &Comparer{opts: compareOptions{workers: runtime.GOMAXPROCS(0)}}
	for _, o := range opts {
		o(&c.opts)
	}
	poolOpts := []ants.Option{ants.WithPreAlloc(true)}
	if c.opts.logger != nil {
		poolOpts = append(poolOpts, ants.WithLogger(xlog.NewAntsXLogger(c.opts.logger)))
	}
	pool, err := ants.NewPool(c.opts.workers, poolOpts...)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return c, nil
}

func (c *Comparer) Release() {
	if c == nil || c.pool == nil {
		return
	}
	c.pool.Release()
}

// Compare inserts the keys, in order, into one tree per mode. All modes
// are compared when none is given. A nil comparer uses a temporary one.
// The reports follow the order of the (deduplicated) modes.
func Compare[K infra.OrderedKey](ctx context.Context, c *Comparer, keys []K, modes ...tree.Mode) ([]Report, error) {
	if c == nil {
		tmp, err := NewComparer()
		if err != nil {
			return nil, err
		}
		defer tmp.Release()
		c = tmp
	}
	if len(modes) == 0 {
		modes = tree.Modes()
	}
	modes = lo.Uniq(modes)

	reports := make([]Report, len(modes))
	errs := make([]error, len(modes))
	wg := sync.WaitGroup{}
	for i, mode := range modes {
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			reports[i], errs[i] = buildReport(ctx, mode, keys, c.opts.stats)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	err := multierr.Combine(errs...)
	if c.opts.logger != nil {
		if err != nil {
			c.opts.logger.ErrorContext(ctx, err, "compare failed", zap.Int("keys", len(keys)))
		} else {
			c.opts.logger.DebugContext(ctx, "compare done",
				zap.Int("keys", len(keys)),
				zap.Strings("modes", lo.Map(modes, func(m tree.Mode, _ int) string { return m.String() })),
			)
		}
	}
	return reports, err
}

func buildReport[K infra.OrderedKey](ctx context.Context, mode tree.Mode, keys []K, stats *observability.TreeStats) (Report, error) {
	report := Report{Mode: mode}
	t, err := tree.New[K](mode, tree.WithSnapshotDisabled())
	if err != nil {
		return report, err
	}
	for _, key := range keys {
		if cerr := ctx.Err(); cerr != nil {
			err = multierr.Append(err, cerr)
			break
		}
		res, ierr := t.Insert(key)
		if ierr != nil {
			stats.RecordReject(ctx, mode.String())
			err = multierr.Append(err, ierr)
			continue
		}
		if !res.Inserted {
			report.Duplicates++
		}
		report.Rotations += res.Rotations()
		report.Recolors += res.Recolors()
		stats.RecordInsert(ctx, mode.String(), res.Inserted, res.Rotations(), res.Recolors())
	}
	report.Len = t.Len()
	report.Height = t.Height()
	stats.RecordHeight(ctx, mode.String(), report.Height)
	return report, err
}
