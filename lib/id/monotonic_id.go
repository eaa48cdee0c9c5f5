package id

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// monotonicNonZeroID only increases, on overflow it restarts from 1.
// The counter owns a whole cache line, sessions hammered by several
// goroutines do not false share it with their neighbours.
type monotonicNonZeroID struct {
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
	val atomic.Uint64
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
}

func (id *monotonicNonZeroID) next() uint64 {
	v := id.val.Add(1)
	if v == 0 {
		v = id.val.Add(1)
	}
	return v
}

// MonotonicNonZeroID numbers the operations of a session, starting at 1.
func MonotonicNonZeroID() Generator {
	src := &monotonicNonZeroID{}
	return &defaultID{
		number: src.next,
		str: func() string {
			return strconv.FormatUint(src.next(), 10)
		},
	}
}
