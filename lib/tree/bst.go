package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ Tree[int] = (*bsTree[int])(nil)

// bsTree is the plain binary search tree, no rebalancing.
type bsTree[K infra.OrderedKey] struct {
	base[K]
}

func (tree *bsTree[K]) Insert(key K) (InsertResult[K], error) {
	if infra.IsUnordered(key) {
		return InsertResult[K]{}, nonOrderableKey(key)
	}

	rec := tree.newRecorder()
	// Walk the link slots, so attaching is a single store into the
	// parent's child pointer (or the root).
	slot := &tree.root
	for x := *slot; x != nil; x = *slot {
		rec.visit(x.key)
		res := infra.CompareKeys(key, x.key)
		if /* equal */ res == 0 {
			return tree.done(rec, false), nil
		} else /* less */ if res < 0 {
			slot = &x.left
		} else /* greater */ {
			slot = &x.right
		}
	}
	*slot = &treeNode[K]{key: key}
	rec.visit(key)
	rec.emit(EventAttach, key, Black, "")
	return tree.done(rec, true), nil
}
