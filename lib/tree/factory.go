package tree

import (
	"fmt"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

type Mode uint8

const (
	ModeBST Mode = iota
	ModeAVL
	ModeRedBlack
	// ModeBalanced has no balancing algorithm of its own yet, it
	// builds an unbalanced BST.
	ModeBalanced
	_modeMax
)

func (mode Mode) String() string {
	switch mode {
	case ModeBST:
		return "bst"
	case ModeAVL:
		return "avl"
	case ModeRedBlack:
		return "redblack"
	case ModeBalanced:
		return "balanced"
	default:
	}
	return fmt.Sprintf("Mode(%d)", uint8(mode))
}

func (mode Mode) valid() bool {
	return mode < _modeMax
}

// Modes lists every selectable mode.
func Modes() []Mode {
	return []Mode{ModeBST, ModeAVL, ModeRedBlack, ModeBalanced}
}

// ParseMode accepts the selector names case-insensitively.
func ParseMode(selector string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "bst", "unbalanced", "binary":
		return ModeBST, nil
	case "avl":
		return ModeAVL, nil
	case "redblack", "red-black", "rbtree", "rb":
		return ModeRedBlack, nil
	case "balanced":
		return ModeBalanced, nil
	default:
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, selector)
}

type treeOptions struct {
	snapshotDisabled bool
	traceDisabled    bool
}

type TreeOption func(*treeOptions)

// WithSnapshotDisabled stops Insert from copying the whole tree into
// InsertResult.Root. Bulk loaders want this.
func WithSnapshotDisabled() TreeOption {
	return func(opts *treeOptions) {
		opts.snapshotDisabled = true
	}
}

// WithTraceDisabled stops Insert from recording the touched path and
// the structural events.
func WithTraceDisabled() TreeOption {
	return func(opts *treeOptions) {
		opts.traceDisabled = true
	}
}

func newBase[K infra.OrderedKey](mode Mode, opts ...TreeOption) base[K] {
	b := base[K]{mode: mode}
	for _, o := range opts {
		o(&b.opts)
	}
	return b
}

// New is the tree factory.
func New[K infra.OrderedKey](mode Mode, opts ...TreeOption) (Tree[K], error) {
	switch mode {
	case ModeBST, ModeBalanced:
		return &bsTree[K]{base: newBase[K](mode, opts...)}, nil
	case ModeAVL:
		return &avlTree[K]{base: newBase[K](mode, opts...)}, nil
	case ModeRedBlack:
		return &rbTree[K]{base: newBase[K](mode, opts...)}, nil
	default:
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
}

func NewBST[K infra.OrderedKey](opts ...TreeOption) Tree[K] {
	return &bsTree[K]{base: newBase[K](ModeBST, opts...)}
}

func NewAVLTree[K infra.OrderedKey](opts ...TreeOption) Tree[K] {
	return &avlTree[K]{base: newBase[K](ModeAVL, opts...)}
}

func NewRBTree[K infra.OrderedKey](opts ...TreeOption) Tree[K] {
	return &rbTree[K]{base: newBase[K](ModeRedBlack, opts...)}
}
