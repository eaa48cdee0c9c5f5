package tree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotIsDetached(t *testing.T) {
	tree := NewRBTree[int]()
	var snaps []*Snapshot[int]
	for _, k := range []int{10, 20, 30, 40} {
		res, err := tree.Insert(k)
		require.NoError(t, err)
		snaps = append(snaps, res.Root)
	}

	// Later rotations and recolors must not leak into earlier snapshots.
	require.Equal(t, 10, snaps[1].Root().Key())
	require.Equal(t, Black, snaps[1].Root().Color())
	require.Equal(t, 20, snaps[1].Root().Right().Key())
	require.Equal(t, Red, snaps[1].Root().Right().Color())

	require.Equal(t, 20, snaps[2].Root().Key())
	require.Equal(t, Red, snaps[2].Root().Left().Color())
	require.Equal(t, Black, snaps[3].Root().Left().Color())

	require.Equal(t, int64(2), snaps[1].Len())
	require.Equal(t, 2, snaps[1].Height())
	require.Equal(t, int64(4), snaps[3].Len())
	require.Equal(t, 3, snaps[3].Height())
	require.Equal(t, ModeRedBlack, snaps[3].Mode())
}

func TestSnapshotWalks(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		_, err := tree.Insert(k)
		require.NoError(t, err)
	}
	snap := tree.Snapshot()

	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, slices.Collect(snap.InOrder()))

	var pre []int
	var live []Entry[int]
	for e := range snap.PreOrder() {
		pre = append(pre, e.Key)
	}
	for e := range tree.Traverse() {
		live = append(live, e)
	}
	require.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, pre)
	require.Equal(t, live, slices.Collect(snap.PreOrder()))
}

func TestSnapshotEmpty(t *testing.T) {
	tree := NewBST[int]()
	snap := tree.Snapshot()
	require.Nil(t, snap.Root())
	require.Equal(t, int64(0), snap.Len())
	require.Equal(t, 0, snap.Height())
	require.Empty(t, slices.Collect(snap.InOrder()))
	require.Empty(t, slices.Collect(snap.PreOrder()))

	var nilSnap *Snapshot[int]
	require.Nil(t, nilSnap.Root())
	require.Equal(t, int64(0), nilSnap.Len())
}
