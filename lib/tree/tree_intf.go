package tree

import (
	"iter"

	"github.com/benz9527/xtree/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// Node is the read-only view of a live tree node.
// Parent is only maintained by the red-black tree and Height only
// by the AVL tree, the other variants report nil and 0.
type Node[K infra.OrderedKey] interface {
	Key() K
	Color() RBColor
	Height() int
	Left() Node[K]
	Right() Node[K]
	Parent() Node[K]
}

// Entry is one step of a traversal. It carries the structural
// relationships a renderer needs, never coordinates.
type Entry[K infra.OrderedKey] struct {
	Key       K
	ParentKey K
	Side      RBDirection
	Depth     int
	Color     RBColor
	HasParent bool
	HasLeft   bool
	HasRight  bool
}

type Tree[K infra.OrderedKey] interface {
	Mode() Mode
	Len() int64
	Height() int
	Root() Node[K]
	// Insert adds the key. A duplicate key is not an error, the
	// result reports Inserted=false and the tree is left untouched.
	Insert(key K) (InsertResult[K], error)
	Contains(key K) bool
	Search(key K) Node[K]
	Min() (K, bool)
	Max() (K, bool)
	// Traverse is the lazy pre-order walk. Every range over the
	// returned sequence starts again from the root.
	Traverse() iter.Seq[Entry[K]]
	// Foreach is the in-order walk, it stops when action returns false.
	Foreach(action func(idx int64, e Entry[K]) bool)
	Snapshot() *Snapshot[K]
	Reset()
}
