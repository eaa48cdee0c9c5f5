package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ Tree[int] = (*avlTree[int])(nil)

// avlTree keeps |height(left) - height(right)| <= 1 on every node.
// Heights are cached per node and refreshed bottom-up along the
// insertion path and inside the rotations.
type avlTree[K infra.OrderedKey] struct {
	base[K]
}

func (tree *avlTree[K]) Height() int {
	return tree.root.Height()
}

/*
	  |                        |
	  Z                        Y
	 / \    rotateLeft(Z)     / \
	A   Y   ============>    Z   C
	   / \                  / \
	  B   C                A   B
*/
func (tree *avlTree[K]) rotateLeft(z *treeNode[K], rec *recorder[K]) *treeNode[K] {
	y := z.right
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] avl left rotate node z.right is nil")
	}
	z.right, y.left = y.left, z
	z.updateHeight()
	y.updateHeight()
	rec.emit(EventRotateLeft, z.key, z.color, "")
	return y
}

/*
	    |                      |
	    Z                      Y
	   / \   rotateRight(Z)   / \
	  Y   C  =============>  A   Z
	 / \                        / \
	A   B                      B   C
*/
func (tree *avlTree[K]) rotateRight(z *treeNode[K], rec *recorder[K]) *treeNode[K] {
	y := z.left
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] avl right rotate node z.left is nil")
	}
	z.left, y.right = y.right, z
	z.updateHeight()
	y.updateHeight()
	rec.emit(EventRotateRight, z.key, z.color, "")
	return y
}

/*
LL: balance > 1, the left child is left-heavy (or even).

	rotateRight(Z)

RR: balance < -1, the right child is right-heavy (or even).

	rotateLeft(Z)

LR: balance > 1, the left child is right-heavy.

	Z.left = rotateLeft(Z.left), rotateRight(Z)

RL: balance < -1, the right child is left-heavy.

	Z.right = rotateRight(Z.right), rotateLeft(Z)

The heavy child's own balance picks the case. After a single
insertion it always leans towards the new key, so this agrees
with comparing the new key against the child's key.
*/
func (tree *avlTree[K]) rebalance(slot **treeNode[K], rec *recorder[K]) (changed bool) {
	z := *slot
	oldHeight := z.height
	z.updateHeight()

	switch balance := z.balance(); {
	case balance > 1:
		_case := CaseLL
		if z.left.balance() < 0 {
			_case = CaseLR
			z.left = tree.rotateLeft(z.left, rec)
		}
		*slot = tree.rotateRight(z, rec)
		tree.tagCase(rec, _case)
		return true
	case balance < -1:
		_case := CaseRR
		if z.right.balance() > 0 {
			_case = CaseRL
			z.right = tree.rotateRight(z.right, rec)
		}
		*slot = tree.rotateLeft(z, rec)
		tree.tagCase(rec, _case)
		return true
	default:
	}
	return z.height != oldHeight
}

// tagCase stamps the rebalance case on the rotation events just emitted.
func (tree *avlTree[K]) tagCase(rec *recorder[K], _case string) {
	n := 1
	if _case == CaseLR || _case == CaseRL {
		n = 2
	}
	for i := len(rec.events) - 1; i >= 0 && n > 0; i, n = i-1, n-1 {
		rec.events[i].Case = _case
	}
}

func (tree *avlTree[K]) Insert(key K) (InsertResult[K], error) {
	if infra.IsUnordered(key) {
		return InsertResult[K]{}, nonOrderableKey(key)
	}

	rec := tree.newRecorder()
	// The ancestor stack holds the link slots from the root down to
	// the parent of the new node.
	slots := make([]**treeNode[K], 0, tree.root.Height()+1)
	slot := &tree.root
	for x := *slot; x != nil; x = *slot {
		rec.visit(x.key)
		res := infra.CompareKeys(key, x.key)
		if /* equal */ res == 0 {
			return tree.done(rec, false), nil
		}
		slots = append(slots, slot)
		if /* less */ res < 0 {
			slot = &x.left
		} else /* greater */ {
			slot = &x.right
		}
	}
	*slot = &treeNode[K]{key: key, height: 1}
	rec.visit(key)
	rec.emit(EventAttach, key, Black, "")

	for i := len(slots) - 1; i >= 0; i-- {
		if !tree.rebalance(slots[i], rec) {
			// Subtree height unchanged, the ancestors above are intact.
			break
		}
	}
	return tree.done(rec, true), nil
}
