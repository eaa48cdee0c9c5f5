package sim

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// Renderer draws a snapshot after every session operation. It only
// ever sees the detached snapshot, never the live tree.
type Renderer[K infra.OrderedKey] interface {
	Render(mode tree.Mode, snap *tree.Snapshot[K]) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc[K infra.OrderedKey] func(mode tree.Mode, snap *tree.Snapshot[K]) error

func (fn RendererFunc[K]) Render(mode tree.Mode, snap *tree.Snapshot[K]) error {
	return fn(mode, snap)
}

type nopRenderer[K infra.OrderedKey] struct{}

func (nopRenderer[K]) Render(tree.Mode, *tree.Snapshot[K]) error { return nil }

var _ Renderer[int] = (*OutlineRenderer[int])(nil)

// OutlineRenderer prints the tree as an indented pre-order outline:
//
//	[redblack] len=3 height=2
//	20 (B)
//	  L: 10 (R)
//	  R: 30 (R)
//
// Colour tags are printed for red-black trees only.
type OutlineRenderer[K infra.OrderedKey] struct {
	w      io.Writer
	indent string
}

func NewOutlineRenderer[K infra.OrderedKey](w io.Writer) *OutlineRenderer[K] {
	return &OutlineRenderer[K]{w: w, indent: "  "}
}

func colorTag(color tree.RBColor) string {
	if color == tree.Red {
		return " (R)"
	}
	return " (B)"
}

func (r *OutlineRenderer[K]) Render(mode tree.Mode, snap *tree.Snapshot[K]) error {
	bw := bufio.NewWriter(r.w)
	if snap.Root() == nil {
		if _, err := fmt.Fprintf(bw, "[%s] (empty)\n", mode); err != nil {
			return err
		}
		return bw.Flush()
	}

	if _, err := fmt.Fprintf(bw, "[%s] len=%d height=%d\n", mode, snap.Len(), snap.Height()); err != nil {
		return err
	}
	for e := range snap.PreOrder() {
		builder := strings.Builder{}
		builder.WriteString(strings.Repeat(r.indent, e.Depth))
		switch e.Side {
		case tree.Left:
			builder.WriteString("L: ")
		case tree.Right:
			builder.WriteString("R: ")
		default:
		}
		builder.WriteString(fmt.Sprint(e.Key))
		if mode == tree.ModeRedBlack {
			builder.WriteString(colorTag(e.Color))
		}
		builder.WriteByte('\n')
		if _, err := bw.WriteString(builder.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
