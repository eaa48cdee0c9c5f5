package tree

import (
	"iter"

	"github.com/benz9527/xtree/lib/infra"
)

// SnapshotNode is a detached copy of a tree node. It never changes
// after the snapshot has been taken.
type SnapshotNode[K infra.OrderedKey] struct {
	left  *SnapshotNode[K]
	right *SnapshotNode[K]
	key   K
	color RBColor
}

func (sn *SnapshotNode[K]) Key() K                 { return sn.key }
func (sn *SnapshotNode[K]) Color() RBColor         { return sn.color }
func (sn *SnapshotNode[K]) Left() *SnapshotNode[K]  { return sn.left }
func (sn *SnapshotNode[K]) Right() *SnapshotNode[K] { return sn.right }

// Snapshot is the read-only view handed to renderers.
type Snapshot[K infra.OrderedKey] struct {
	root   *SnapshotNode[K]
	mode   Mode
	size   int64
	height int
}

func newSnapshot[K infra.OrderedKey](mode Mode, root *treeNode[K]) *Snapshot[K] {
	snap := &Snapshot[K]{mode: mode}
	snap.root = snap.copyOf(root, 1)
	return snap
}

func (snap *Snapshot[K]) copyOf(n *treeNode[K], depth int) *SnapshotNode[K] {
	if n == nil {
		return nil
	}
	snap.size++
	snap.height = max(snap.height, depth)
	return &SnapshotNode[K]{
		key:   n.key,
		color: n.color,
		left:  snap.copyOf(n.left, depth+1),
		right: snap.copyOf(n.right, depth+1),
	}
}

func (snap *Snapshot[K]) Root() *SnapshotNode[K] {
	if snap == nil {
		return nil
	}
	return snap.root
}

func (snap *Snapshot[K]) Mode() Mode { return snap.mode }

func (snap *Snapshot[K]) Len() int64 {
	if snap == nil {
		return 0
	}
	return snap.size
}

func (snap *Snapshot[K]) Height() int {
	if snap == nil {
		return 0
	}
	return snap.height
}

// PreOrder walks the snapshot root, left, right.
func (snap *Snapshot[K]) PreOrder() iter.Seq[Entry[K]] {
	return func(yield func(Entry[K]) bool) {
		type frame struct {
			node   *SnapshotNode[K]
			parent *SnapshotNode[K]
			side   RBDirection
			depth  int
		}
		if snap.Root() == nil {
			return
		}
		stack := make([]frame, 0, snap.height+1)
		stack = append(stack, frame{node: snap.root, side: Root})
		for size := len(stack); size > 0; size = len(stack) {
			f := stack[size-1]
			stack = stack[:size-1]
			e := Entry[K]{
				Key:      f.node.key,
				Side:     f.side,
				Depth:    f.depth,
				Color:    f.node.color,
				HasLeft:  f.node.left != nil,
				HasRight: f.node.right != nil,
			}
			if f.parent != nil {
				e.ParentKey, e.HasParent = f.parent.key, true
			}
			if !yield(e) {
				return
			}
			if f.node.right != nil {
				stack = append(stack, frame{f.node.right, f.node, Right, f.depth + 1})
			}
			if f.node.left != nil {
				stack = append(stack, frame{f.node.left, f.node, Left, f.depth + 1})
			}
		}
	}
}

// InOrder yields the keys in ascending order.
func (snap *Snapshot[K]) InOrder() iter.Seq[K] {
	return func(yield func(K) bool) {
		stack := make([]*SnapshotNode[K], 0, snap.Height())
		for aux := snap.Root(); aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		for size := len(stack); size > 0; size = len(stack) {
			aux := stack[size-1]
			stack = stack[:size-1]
			if !yield(aux.key) {
				return
			}
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}
