package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ Tree[int] = (*rbTree[int])(nil)

type rbTree[K infra.OrderedKey] struct {
	base[K]
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// p6. A new node is red before the fix-up.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K]) leftRotate(x *treeNode[K], rec *recorder[K]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree unknown node direction to left-rotate")
	}
	y.parent = p
	rec.emit(EventRotateLeft, x.key, x.color, "")
}

/*
		 |                         |
		 X                         L
		/ \     rightRotate(X)    / \
	   L   S    ============>    Ld  X
	  / \                           / \
	Ld   Lc                        Lc  S
*/
func (tree *rbTree[K]) rightRotate(x *treeNode[K], rec *recorder[K]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree unknown node direction to right-rotate")
	}
	y.parent = p
	rec.emit(EventRotateRight, x.key, x.color, "")
}

func (tree *rbTree[K]) rotate(x *treeNode[K], dir RBDirection, rec *recorder[K], _case string) {
	switch dir {
	case Left:
		tree.leftRotate(x, rec)
	case Right:
		tree.rightRotate(x, rec)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree rotate without direction")
	}
	rec.tagLast(_case)
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
// i2: Duplicate key, ignored without fix-up.
func (tree *rbTree[K]) Insert(key K) (InsertResult[K], error) {
	if infra.IsUnordered(key) {
		return InsertResult[K]{}, nonOrderableKey(key)
	}

	rec := tree.newRecorder()
	if /* i1 */ tree.root == nil {
		tree.root = &treeNode[K]{key: key, color: Red}
		rec.visit(key)
		rec.emit(EventAttach, key, Red, "")
		rec.recolor(tree.root, Black, CaseRootBlack)
		return tree.done(rec, true), nil
	}

	var x, y *treeNode[K] = tree.root, nil
	res := int64(0)
	for x != nil {
		y = x
		rec.visit(x.key)
		if res = infra.CompareKeys(key, x.key); /* i2 */ res == 0 {
			return tree.done(rec, false), nil
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &treeNode[K]{
		key:    key,
		color:  Red,
		parent: y,
	}
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}
	rec.visit(key)
	rec.emit(EventAttach, key, Red, "")

	tree.insertRebalance(z, rec)
	return tree.done(rec, true), nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

The loop stops once X is the root or X's parent P is black.
A red P is never the root, so the grandpa G always exists.

im1 (uncle-red): Both the parent P and the uncle U are red, grandpa G
is black. Repaint P and U into black, G into red. G may be in
red-violation now, continue with X = G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2 (inner-grandchild): P is red but U is black. X is opposite
direction to P. Rotate P to the opposite direction, then X and P swap
roles and it must enter im3 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3 (outer-grandchild): X is the same direction as P. Repaint P into
black and G into red, rotate G to the opposite direction. P becomes the
black subtree root, stop.

	    [G]                 [P]
	    / \    rotate(G)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]

At the end the root is painted black whichever way the loop exits.
*/
func (tree *rbTree[K]) insertRebalance(x *treeNode[K], rec *recorder[K]) {
	for !x.isRoot() && x.parent.isRed() {
		p, gp := x.parent, x.grandpa()
		if gp == nil {
			// impossible run to here
			panic( /* debug assertion */ "[xtree] rbtree red parent without grandpa")
		}

		if u := x.uncle(); /* im1 */ u.isRed() {
			rec.recolor(p, Black, CaseUncleRed)
			rec.recolor(u, Black, CaseUncleRed)
			rec.recolor(gp, Red, CaseUncleRed)
			x = gp
			continue
		}

		if dir := x.Direction(); /* im2 */ dir != p.Direction() {
			// Rotate away from X's side to lift X above P.
			tree.rotate(p, -dir, rec, CaseInnerChild)
			x, p = p, x
		}

		/* im3 */
		rec.recolor(p, Black, CaseOuterChild)
		rec.recolor(gp, Red, CaseOuterChild)
		tree.rotate(gp, -p.Direction(), rec, CaseOuterChild)
		break
	}

	if tree.root.isRed() {
		rec.recolor(tree.root, Black, CaseRootBlack)
	}
}
