package tree

import (
	"math"
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"
	"github.com/stretchr/testify/require"
)

// The trees are checked against three independent ordered sets. Any of
// them disagreeing with a mode on membership or order is a bug here.

func inorderKeys(tree Tree[int]) []int {
	keys := make([]int, 0, tree.Len())
	tree.Foreach(func(_ int64, e Entry[int]) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

func TestDifferentialAgainstReferenceSets(t *testing.T) {
	const n = 5000
	keys := make([]int, 0, n)
	for i := 0; i < n; i++ {
		// narrow range forces plenty of duplicates
		keys = append(keys, randv2.IntN(n))
	}

	for _, mode := range Modes() {
		t.Run(mode.String(), func(tt *testing.T) {
			tree, err := New[int](mode, WithSnapshotDisabled(), WithTraceDisabled())
			require.NoError(tt, err)
			gods := redblacktree.NewWithIntComparator()
			bt := btree.NewOrderedG[int](16)
			rb := llrb.New()

			for i, k := range keys {
				_, existed := gods.Get(k)
				gods.Put(k, struct{}{})
				_, replaced := bt.ReplaceOrInsert(k)
				rb.ReplaceOrInsert(llrb.Int(k))

				res, err := tree.Insert(k)
				require.NoError(tt, err)
				require.Equal(tt, !existed, res.Inserted, "insert #%d key %d", i, k)
				require.Equal(tt, !replaced, res.Inserted)
			}

			require.Equal(tt, int64(gods.Size()), tree.Len())
			require.Equal(tt, bt.Len(), int(tree.Len()))
			require.Equal(tt, rb.Len(), int(tree.Len()))

			got := inorderKeys(tree)

			godsKeys := make([]int, 0, gods.Size())
			for _, k := range gods.Keys() {
				godsKeys = append(godsKeys, k.(int))
			}
			require.Equal(tt, godsKeys, got)

			btKeys := make([]int, 0, bt.Len())
			bt.Ascend(func(item int) bool {
				btKeys = append(btKeys, item)
				return true
			})
			require.Equal(tt, btKeys, got)

			rbKeys := make([]int, 0, rb.Len())
			rb.AscendGreaterOrEqual(llrb.Int(math.MinInt), func(item llrb.Item) bool {
				rbKeys = append(rbKeys, int(item.(llrb.Int)))
				return true
			})
			require.Equal(tt, rbKeys, got)

			minKey, ok := tree.Min()
			require.True(tt, ok)
			btMin, _ := bt.Min()
			require.Equal(tt, btMin, minKey)
			maxKey, ok := tree.Max()
			require.True(tt, ok)
			require.Equal(tt, int(rb.Max().(llrb.Int)), maxKey)

			require.NoError(tt, Validate(tree))
		})
	}
}

func TestDifferentialHeights(t *testing.T) {
	keys := randv2.Perm(2048)
	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	avl, rb := NewAVLTree[int](WithSnapshotDisabled()), NewRBTree[int](WithSnapshotDisabled())
	gods := redblacktree.NewWithIntComparator()
	for _, k := range sorted {
		_, err := avl.Insert(k)
		require.NoError(t, err)
		_, err = rb.Insert(k)
		require.NoError(t, err)
		gods.Put(k, nil)
	}

	// Both balanced variants stay logarithmic on sorted input.
	n := float64(len(keys))
	require.LessOrEqual(t, float64(avl.Height()), 1.4405*math.Log2(n+2))
	require.LessOrEqual(t, float64(rb.Height()), 2*math.Log2(n+1))
	require.Equal(t, sorted, inorderKeys(avl))
	require.Equal(t, sorted, inorderKeys(rb))

	godsMin, godsMax := gods.Left().Key.(int), gods.Right().Key.(int)
	require.Equal(t, sorted[0], godsMin)
	require.Equal(t, sorted[len(sorted)-1], godsMax)
}
