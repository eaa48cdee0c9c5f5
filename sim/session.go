package sim

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

// ContextKeySession carries the session ID into the log entries.
const ContextKeySession = xlog.ContextKey("session")

type sessionOptions struct {
	id       string
	treeOpts []tree.TreeOption
	stats    *observability.TreeStats
}

type SessionOption func(*sessionOptions)

func WithSessionID(id string) SessionOption {
	return func(opts *sessionOptions) {
		opts.id = id
	}
}

// WithTreeOptions is applied to every tree the session creates.
func WithTreeOptions(treeOpts ...tree.TreeOption) SessionOption {
	return func(opts *sessionOptions) {
		opts.treeOpts = append(opts.treeOpts, treeOpts...)
	}
}

func WithTreeStats(stats *observability.TreeStats) SessionOption {
	return func(opts *sessionOptions) {
		opts.stats = stats
	}
}

// Session owns exactly one active tree. Every operation is forwarded
// to the renderer (the snapshot) and to the operation log (one line).
// It is safe for concurrent use, the calls are serialized.
type Session[K infra.OrderedKey] struct {
	lock     sync.Mutex
	tree     tree.Tree[K]
	renderer Renderer[K]
	oplog    OperationLog
	seq      id.Generator
	opts     sessionOptions
}

func NewSession[K infra.OrderedKey](
	mode tree.Mode,
	renderer Renderer[K],
	oplog OperationLog,
	opts ...SessionOption,
) (*Session[K], error) {
	s := &Session[K]{
		renderer: renderer,
		oplog:    oplog,
		seq:      id.MonotonicNonZeroID(),
	}
	for _, o := range opts {
		o(&s.opts)
	}
	if s.renderer == nil {
		s.renderer = nopRenderer[K]{}
	}
	if s.oplog == nil {
		s.oplog = nopOperationLog{}
	}
	t, err := tree.New[K](mode, s.opts.treeOpts...)
	if err != nil {
		return nil, err
	}
	s.tree = t
	return s, nil
}

func (s *Session[K]) withID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.opts.id == "" {
		return ctx
	}
	return context.WithValue(ctx, ContextKeySession, s.opts.id)
}

func (s *Session[K]) log(ctx context.Context, msg string, fields ...zap.Field) {
	s.oplog.Log(ctx, msg, append([]zap.Field{zap.Uint64("seq", s.seq.Number())}, fields...)...)
}

func (s *Session[K]) Mode() tree.Mode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.tree.Mode()
}

func (s *Session[K]) Len() int64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.tree.Len()
}

func (s *Session[K]) Snapshot() *tree.Snapshot[K] {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.tree.Snapshot()
}

// SwitchMode replaces the active tree by an empty tree of the mode and
// clears the operation log. An invalid mode keeps the current tree.
func (s *Session[K]) SwitchMode(ctx context.Context, mode tree.Mode) error {
	ctx = s.withID(ctx)
	s.lock.Lock()
	defer s.lock.Unlock()

	t, err := tree.New[K](mode, s.opts.treeOpts...)
	if err != nil {
		s.log(ctx, fmt.Sprintf("Rejected mode %s", mode), zap.Error(err))
		return err
	}
	s.tree = t
	s.oplog.Reset()
	s.log(ctx, fmt.Sprintf("Switched to %s", mode))
	return s.renderer.Render(mode, s.tree.Snapshot())
}

// Reset empties the active tree, the mode is kept.
func (s *Session[K]) Reset(ctx context.Context) error {
	ctx = s.withID(ctx)
	s.lock.Lock()
	defer s.lock.Unlock()

	s.tree.Reset()
	s.oplog.Reset()
	s.log(ctx, fmt.Sprintf("Reset %s", s.tree.Mode()))
	return s.renderer.Render(s.tree.Mode(), s.tree.Snapshot())
}

func (s *Session[K]) Insert(ctx context.Context, key K) (tree.InsertResult[K], error) {
	ctx = s.withID(ctx)
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.insert(ctx, key)
}

// InsertText parses the text into a key first. Text that is not a key
// is rejected with tree.ErrNonOrderableKey before the tree is touched.
func (s *Session[K]) InsertText(ctx context.Context, text string) (tree.InsertResult[K], error) {
	ctx = s.withID(ctx)
	s.lock.Lock()
	defer s.lock.Unlock()

	key, err := tree.ParseKey[K](text)
	if err != nil {
		s.reject(ctx, fmt.Sprintf("%q", text), err)
		return tree.InsertResult[K]{}, err
	}
	return s.insert(ctx, key)
}

func (s *Session[K]) reject(ctx context.Context, input string, err error) {
	mode := s.tree.Mode()
	s.opts.stats.RecordReject(ctx, mode.String())
	s.log(ctx, fmt.Sprintf("Rejected %s for %s", input, mode), zap.Error(err))
}

func (s *Session[K]) insert(ctx context.Context, key K) (tree.InsertResult[K], error) {
	mode := s.tree.Mode()
	res, err := s.tree.Insert(key)
	if err != nil {
		s.reject(ctx, fmt.Sprint(key), err)
		return res, err
	}

	snap := res.Root
	if snap == nil {
		snap = s.tree.Snapshot()
	}
	s.opts.stats.RecordInsert(ctx, mode.String(), res.Inserted, res.Rotations(), res.Recolors())
	s.opts.stats.RecordHeight(ctx, mode.String(), snap.Height())
	if res.Inserted {
		s.log(ctx, fmt.Sprintf("Inserted %v into %s", key, mode),
			zap.Int("rotations", res.Rotations()),
			zap.Int("recolors", res.Recolors()),
			zap.Int("height", snap.Height()),
			zap.Int64("len", snap.Len()),
		)
	} else {
		s.log(ctx, fmt.Sprintf("Ignored duplicate %v in %s", key, mode))
	}
	return res, s.renderer.Render(mode, snap)
}
