package sim

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/tree"
)

func TestOutlineRenderer(t *testing.T) {
	testcases := []struct {
		name     string
		mode     tree.Mode
		keys     []int
		expected string
	}{
		{
			name:     "empty",
			mode:     tree.ModeBST,
			expected: "[bst] (empty)\n",
		},
		{
			name: "redblack colours",
			mode: tree.ModeRedBlack,
			keys: []int{10, 20, 30},
			expected: "[redblack] len=3 height=2\n" +
				"20 (B)\n" +
				"  L: 10 (R)\n" +
				"  R: 30 (R)\n",
		},
		{
			name: "avl without colours",
			mode: tree.ModeAVL,
			keys: []int{3, 2, 1, 4},
			expected: "[avl] len=4 height=3\n" +
				"2\n" +
				"  L: 1\n" +
				"  R: 3\n" +
				"    R: 4\n",
		},
		{
			name: "bst chain",
			mode: tree.ModeBST,
			keys: []int{1, 2, 3},
			expected: "[bst] len=3 height=3\n" +
				"1\n" +
				"  R: 2\n" +
				"    R: 3\n",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tr, err := tree.New[int](tc.mode)
			require.NoError(tt, err)
			for _, k := range tc.keys {
				_, err = tr.Insert(k)
				require.NoError(tt, err)
			}
			buf := &bytes.Buffer{}
			require.NoError(tt, NewOutlineRenderer[int](buf).Render(tc.mode, tr.Snapshot()))
			require.Equal(tt, tc.expected, buf.String())
		})
	}
}

func TestSessionOutline(t *testing.T) {
	buf := &bytes.Buffer{}
	s, err := NewSession[string](tree.ModeRedBlack, NewOutlineRenderer[string](buf), nil)
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), "m")
	require.NoError(t, err)
	require.Equal(t, "[redblack] len=1 height=1\nm (B)\n", buf.String())

	buf.Reset()
	require.NoError(t, s.SwitchMode(context.Background(), tree.ModeAVL))
	require.Equal(t, "[avl] (empty)\n", buf.String())
}

func TestRendererFuncError(t *testing.T) {
	errRender := errors.New("render failed")
	calls := 0
	s, err := NewSession[int](tree.ModeBST, RendererFunc[int](func(tree.Mode, *tree.Snapshot[int]) error {
		calls++
		return errRender
	}), nil)
	require.NoError(t, err)

	res, err := s.Insert(context.Background(), 1)
	require.ErrorIs(t, err, errRender)
	// The insertion itself went through.
	require.True(t, res.Inserted)
	require.Equal(t, int64(1), s.Len())
	require.Equal(t, 1, calls)
}
