package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

// treeNode is the single node shape shared by every variant.
// The parent link is a back-reference written by the red-black
// tree only; ownership always flows root -> children.
type treeNode[K infra.OrderedKey] struct {
	parent *treeNode[K]
	left   *treeNode[K]
	right  *treeNode[K]
	key    K
	height int // AVL only, height of an empty subtree is 0
	color  RBColor
}

var _ Node[int] = (*treeNode[int])(nil)

func (node *treeNode[K]) Key() K {
	return node.key
}

func (node *treeNode[K]) Color() RBColor {
	return node.color
}

func (node *treeNode[K]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *treeNode[K]) Left() Node[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *treeNode[K]) Right() Node[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *treeNode[K]) Parent() Node[K] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *treeNode[K]) isRed() bool {
	return node != nil && node.color == Red
}

// Nil leaves are black.
func (node *treeNode[K]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *treeNode[K]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *treeNode[K]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *treeNode[K]) sibling() *treeNode[K] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *treeNode[K]) uncle() *treeNode[K] {
	return node.parent.sibling()
}

func (node *treeNode[K]) grandpa() *treeNode[K] {
	return node.parent.parent
}

func (node *treeNode[K]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *treeNode[K]) minimum() *treeNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *treeNode[K]) maximum() *treeNode[K] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// AVL bookkeeping.

func (node *treeNode[K]) updateHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

// balance = height(left) - height(right)
func (node *treeNode[K]) balance() int {
	if node == nil {
		return 0
	}
	return node.left.Height() - node.right.Height()
}
