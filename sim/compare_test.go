package sim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
)

func ascending(n int) []int {
	keys := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		keys = append(keys, i)
	}
	return keys
}

func TestCompareAllModes(t *testing.T) {
	c, err := NewComparer(WithCompareWorkers(2))
	require.NoError(t, err)
	defer c.Release()

	reports, err := Compare(context.Background(), c, ascending(64))
	require.NoError(t, err)
	require.Len(t, reports, len(tree.Modes()))

	for i, mode := range tree.Modes() {
		r := reports[i]
		require.Equal(t, mode, r.Mode)
		require.Equal(t, int64(64), r.Len)
		require.Equal(t, 0, r.Duplicates)
		switch mode {
		case tree.ModeBST, tree.ModeBalanced:
			require.Equal(t, 64, r.Height)
			require.Equal(t, 0, r.Rotations)
			require.Equal(t, 0, r.Recolors)
		case tree.ModeAVL:
			require.GreaterOrEqual(t, r.Height, 7)
			require.LessOrEqual(t, r.Height, 8)
			require.Positive(t, r.Rotations)
			require.Equal(t, 0, r.Recolors)
		case tree.ModeRedBlack:
			require.GreaterOrEqual(t, r.Height, 7)
			require.LessOrEqual(t, r.Height, 12)
			require.Positive(t, r.Rotations)
			require.Positive(t, r.Recolors)
		}
	}
}

func TestCompareDuplicatesAndModes(t *testing.T) {
	keys := []string{"b", "a", "c", "a", "b"}
	reports, err := Compare(context.Background(), nil, keys, tree.ModeAVL, tree.ModeAVL, tree.ModeBST)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, tree.ModeAVL, reports[0].Mode)
	require.Equal(t, tree.ModeBST, reports[1].Mode)
	for _, r := range reports {
		require.Equal(t, int64(3), r.Len)
		require.Equal(t, 2, r.Duplicates)
		require.Equal(t, 2, r.Height)
	}
}

func TestCompareInvalidMode(t *testing.T) {
	reports, err := Compare(context.Background(), nil, ascending(3), tree.ModeRedBlack, tree.Mode(7))
	require.ErrorIs(t, err, tree.ErrInvalidMode)
	require.Len(t, reports, 2)
	require.Equal(t, int64(3), reports[0].Len)
}

func TestCompareRejectsNaN(t *testing.T) {
	keys := []float64{1.5, math.NaN(), 0.5}
	reports, err := Compare(context.Background(), nil, keys, tree.ModeRedBlack)
	require.ErrorIs(t, err, tree.ErrNonOrderableKey)
	require.Len(t, reports, 1)
	require.Equal(t, int64(2), reports[0].Len)
}

func TestCompareCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := &syncBuffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerWriteSyncer(buf),
	)
	c, err := NewComparer(WithCompareLogger(logger))
	require.NoError(t, err)
	defer c.Release()

	reports, err := Compare(ctx, c, ascending(10), tree.ModeBST)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(0), reports[0].Len)
	require.NoError(t, logger.Sync())
	require.Contains(t, buf.String(), "compare failed")
}
