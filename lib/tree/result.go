package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type EventKind uint8

const (
	// EventAttach a new node has been linked below Key's parent, or as root.
	EventAttach EventKind = iota
	EventRotateLeft
	EventRotateRight
	// EventRecolor Key has been painted into Color.
	EventRecolor
)

func (kind EventKind) String() string {
	switch kind {
	case EventAttach:
		return "attach"
	case EventRotateLeft:
		return "rotate-left"
	case EventRotateRight:
		return "rotate-right"
	case EventRecolor:
		return "recolor"
	default:
	}
	return "unknown"
}

// Rebalance case tags carried by events.
const (
	CaseLL = "LL"
	CaseRR = "RR"
	CaseLR = "LR"
	CaseRL = "RL"

	CaseUncleRed   = "uncle-red"
	CaseInnerChild = "inner-grandchild"
	CaseOuterChild = "outer-grandchild"
	CaseRootBlack  = "root-black"
)

// Event is one structural change made by an insertion, in the order
// it was applied. Rotations are keyed by the node the rotation pivots
// on (the old subtree root).
type Event[K infra.OrderedKey] struct {
	Kind  EventKind
	Key   K
	Color RBColor
	Case  string
}

type InsertResult[K infra.OrderedKey] struct {
	// Inserted is false for a silently ignored duplicate.
	Inserted bool
	// Root is an immutable copy of the tree after the call,
	// nil if snapshots are disabled.
	Root *Snapshot[K]
	// Path lists the keys touched: the descent path from the root
	// down to the new node followed by any other recolored node.
	Path   []K
	Events []Event[K]
}

// Rotations counts the rotation events.
func (res InsertResult[K]) Rotations() int {
	n := 0
	for _, e := range res.Events {
		if e.Kind == EventRotateLeft || e.Kind == EventRotateRight {
			n++
		}
	}
	return n
}

// Recolors counts the recolor events.
func (res InsertResult[K]) Recolors() int {
	n := 0
	for _, e := range res.Events {
		if e.Kind == EventRecolor {
			n++
		}
	}
	return n
}

type recorder[K infra.OrderedKey] struct {
	path     []K
	events   []Event[K]
	disabled bool
}

func (rec *recorder[K]) visit(key K) {
	if rec.disabled {
		return
	}
	rec.path = append(rec.path, key)
}

func (rec *recorder[K]) touch(key K) {
	if rec.disabled {
		return
	}
	for _, k := range rec.path {
		if k == key {
			return
		}
	}
	rec.path = append(rec.path, key)
}

func (rec *recorder[K]) emit(kind EventKind, key K, color RBColor, _case string) {
	if rec.disabled {
		return
	}
	rec.events = append(rec.events, Event[K]{
		Kind:  kind,
		Key:   key,
		Color: color,
		Case:  _case,
	})
}

func (rec *recorder[K]) tagLast(_case string) {
	if rec.disabled || len(rec.events) == 0 {
		return
	}
	rec.events[len(rec.events)-1].Case = _case
}

func (rec *recorder[K]) recolor(node *treeNode[K], color RBColor, _case string) {
	node.color = color
	rec.touch(node.key)
	rec.emit(EventRecolor, node.key, color, _case)
}
