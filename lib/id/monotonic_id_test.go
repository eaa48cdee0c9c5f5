package id

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicNonZeroID(t *testing.T) {
	gen := MonotonicNonZeroID()
	require.Equal(t, uint64(1), gen.Number())
	require.Equal(t, "2", gen.Str())
	require.Equal(t, uint64(3), gen.Number())
}

func TestMonotonicNonZeroIDOverflow(t *testing.T) {
	src := &monotonicNonZeroID{}
	src.val.Store(^uint64(0) - 1)
	require.Equal(t, ^uint64(0), src.next())
	require.Equal(t, uint64(1), src.next())
}

func TestMonotonicNonZeroIDConcurrent(t *testing.T) {
	gen := MonotonicNonZeroID()
	seen := sync.Map{}
	wg := sync.WaitGroup{}
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				_, loaded := seen.LoadOrStore(gen.Str(), struct{}{})
				assert.False(t, loaded)
			}
		}()
	}
	wg.Wait()
	n := gen.Number()
	require.Equal(t, uint64(4001), n, strconv.FormatUint(n, 10))
}
