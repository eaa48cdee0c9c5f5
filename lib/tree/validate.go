package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// Tree rule validation utilities. A violation is always a bug in the
// balancing code, these are meant for tests and debug builds.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func isNilLeaf[K infra.OrderedKey](node Node[K]) bool {
	return node == nil
}

func isBlack[K infra.OrderedKey](node Node[K]) bool {
	return isNilLeaf[K](node) || node.Color() == Black
}

func isRed[K infra.OrderedKey](node Node[K]) bool {
	return !isNilLeaf[K](node) && node.Color() == Red
}

func blackDepthTo[K infra.OrderedKey](target, to Node[K]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K](aux) {
			depth++
		}
	}
	return depth
}

// OrderViolationValidate inorder traversal checks the keys strictly increase.
func OrderViolationValidate[K infra.OrderedKey](tree Tree[K]) (err error) {
	var prev K
	tree.Foreach(func(idx int64, e Entry[K]) bool {
		if idx > 0 && infra.CompareKeys(prev, e.Key) >= 0 {
			err = fmt.Errorf("%w: %v before %v", errOrderViolation, prev, e.Key)
			return false
		}
		prev = e.Key
		return true
	})
	return err
}

// AVLViolationValidate recomputes every height from scratch, so a stale
// cached height is reported as well as an unbalanced node.
func AVLViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	var err error
	var height func(n Node[K]) int
	height = func(n Node[K]) int {
		if isNilLeaf[K](n) {
			return 0
		}
		l, r := height(n.Left()), height(n.Right())
		if l-r > 1 || r-l > 1 {
			err = multierr.Append(err, fmt.Errorf("%w: key %v (left %d, right %d)", errAVLViolation, n.Key(), l, r))
		}
		h := 1 + max(l, r)
		if tree.Mode() == ModeAVL && n.Height() != h {
			err = multierr.Append(err, fmt.Errorf("%w: key %v (cached %d, real %d)", errAVLHeightStale, n.Key(), n.Height(), h))
		}
		return h
	}
	height(tree.Root())
	return err
}

func RootColorValidate[K infra.OrderedKey](tree Tree[K]) error {
	if root := tree.Root(); isRed[K](root) {
		return fmt.Errorf("%w: key %v", errRootColor, root.Key())
	}
	return nil
}

// RedViolationValidate preorder traversal to validate no red node has a red child.
func RedViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	aux := tree.Root()
	if isNilLeaf[K](aux) {
		return nil
	}

	stack := make([]Node[K], 0, tree.Len()>>1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		l, r := aux.Left(), aux.Right()
		if isRed[K](aux) && (isRed[K](l) || isRed[K](r)) {
			return fmt.Errorf("%w: key %v", errRedViolation, aux.Key())
		}
		if !isNilLeaf[K](l) {
			stack = append(stack, l)
		}
		if !isNilLeaf[K](r) {
			stack = append(stack, r)
		}
	}
	return nil
}

// BFS traversal to load all nodes owning at least one nil leaf.
func bfsLeaves[K infra.OrderedKey](tree Tree[K]) []Node[K] {
	aux := tree.Root()
	if isNilLeaf[K](aux) {
		return nil
	}

	leaves := make([]Node[K], 0, tree.Len()>>1+1)
	queue := make([]Node[K], 0, tree.Len()>>1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ isNilLeaf[K](l) || isNilLeaf[K](r) {
			leaves = append(leaves, aux)
		}
		if !isNilLeaf[K](l) {
			queue = append(queue, l)
		}
		if !isNilLeaf[K](r) {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
It walks up through the parent links, so it only applies to the
red-black tree.
*/
func BlackViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	leaves := bfsLeaves[K](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K](leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if d := blackDepthTo[K](leaves[i], tree.Root()); d != blackDepth {
			return fmt.Errorf("%w: key %v (black depth %d, want %d)", errBlackViolation, leaves[i].Key(), d, blackDepth)
		}
	}
	return nil
}

// ParentLinkValidate checks every child points back to its parent and
// the root has none. This is the bookkeeping the rotations rewire.
func ParentLinkValidate[K infra.OrderedKey](tree Tree[K]) error {
	root := tree.Root()
	if isNilLeaf[K](root) {
		return nil
	}
	if root.Parent() != nil {
		return fmt.Errorf("%w: root %v has a parent", errParentViolation, root.Key())
	}

	var err error
	for e := range tree.Traverse() {
		if !e.HasParent {
			continue
		}
		n := tree.Search(e.Key)
		if p := n.Parent(); p == nil || p.Key() != e.ParentKey {
			err = multierr.Append(err, fmt.Errorf("%w: key %v", errParentViolation, e.Key))
		}
	}
	return err
}

// Validate runs every rule that applies to the tree's mode.
func Validate[K infra.OrderedKey](tree Tree[K]) error {
	err := OrderViolationValidate(tree)
	switch tree.Mode() {
	case ModeAVL:
		err = multierr.Append(err, AVLViolationValidate(tree))
	case ModeRedBlack:
		err = multierr.Combine(
			err,
			RootColorValidate(tree),
			RedViolationValidate(tree),
			BlackViolationValidate(tree),
			ParentLinkValidate(tree),
		)
	default:
	}
	return err
}
