package tree

import (
	"iter"

	"github.com/benz9527/xtree/lib/infra"
)

// base holds the state and the read-only queries every variant
// shares. Insertion is owned by each variant.
type base[K infra.OrderedKey] struct {
	root  *treeNode[K]
	count int64
	mode  Mode
	opts  treeOptions
}

func (tree *base[K]) Mode() Mode {
	return tree.mode
}

func (tree *base[K]) Len() int64 {
	return tree.count
}

func (tree *base[K]) Root() Node[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// Height counts the levels in BFS order, an empty tree is 0.
func (tree *base[K]) Height() int {
	if tree.root == nil {
		return 0
	}
	height := 0
	level := []*treeNode[K]{tree.root}
	for len(level) > 0 {
		height++
		next := make([]*treeNode[K], 0, len(level)<<1)
		for _, n := range level {
			if n.left != nil {
				next = append(next, n.left)
			}
			if n.right != nil {
				next = append(next, n.right)
			}
		}
		level = next
	}
	return height
}

func (tree *base[K]) search(key K) *treeNode[K] {
	for aux := tree.root; aux != nil; {
		res := infra.CompareKeys(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *base[K]) Search(key K) Node[K] {
	if n := tree.search(key); n != nil {
		return n
	}
	return nil
}

func (tree *base[K]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *base[K]) Min() (K, bool) {
	if tree.root == nil {
		return *new(K), false
	}
	return tree.root.minimum().key, true
}

func (tree *base[K]) Max() (K, bool) {
	if tree.root == nil {
		return *new(K), false
	}
	return tree.root.maximum().key, true
}

func (tree *base[K]) Snapshot() *Snapshot[K] {
	return newSnapshot(tree.mode, tree.root)
}

func (tree *base[K]) Reset() {
	tree.root = nil
	tree.count = 0
}

func (tree *base[K]) entry(n, parent *treeNode[K], side RBDirection, depth int) Entry[K] {
	e := Entry[K]{
		Key:      n.key,
		Side:     side,
		Depth:    depth,
		Color:    n.color,
		HasLeft:  n.left != nil,
		HasRight: n.right != nil,
	}
	if parent != nil {
		e.ParentKey, e.HasParent = parent.key, true
	}
	return e
}

func (tree *base[K]) Traverse() iter.Seq[Entry[K]] {
	return func(yield func(Entry[K]) bool) {
		type frame struct {
			node   *treeNode[K]
			parent *treeNode[K]
			side   RBDirection
			depth  int
		}
		if tree.root == nil {
			return
		}
		stack := []frame{{node: tree.root, side: Root}}
		for size := len(stack); size > 0; size = len(stack) {
			f := stack[size-1]
			stack = stack[:size-1]
			if !yield(tree.entry(f.node, f.parent, f.side, f.depth)) {
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

// Inorder traversal to implement the DFS.
func (tree *base[K]) Foreach(action func(idx int64, e Entry[K]) bool) {
	type frame struct {
		node   *treeNode[K]
		parent *treeNode[K]
		side   RBDirection
		depth  int
	}
	if tree.root == nil {
		return
	}

	stack := make([]frame, 0, tree.count>>1)
	defer func() {
		clear(stack)
	}()

	push := func(f frame) {
		for {
			stack = append(stack, f)
			if f.node.left == nil {
				return
			}
			f = frame{f.node.left, f.node, Left, f.depth + 1}
		}
	}
	push(frame{node: tree.root, side: Root})

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		f := stack[size-1]
		if !action(idx, tree.entry(f.node, f.parent, f.side, f.depth)) {
			return
		}
		idx++
		stack = stack[:size-1]
		if f.node.right != nil {
			push(frame{f.node.right, f.node, Right, f.depth + 1})
		}
	}
}

func (tree *base[K]) newRecorder() *recorder[K] {
	return &recorder[K]{disabled: tree.opts.traceDisabled}
}

func (tree *base[K]) done(rec *recorder[K], inserted bool) InsertResult[K] {
	if inserted {
		tree.count++
	}
	res := InsertResult[K]{
		Inserted: inserted,
		Path:     rec.path,
		Events:   rec.events,
	}
	if !tree.opts.snapshotDisabled {
		res.Root = tree.Snapshot()
	}
	return res
}
