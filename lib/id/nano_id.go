package id

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"sync"
)

const nanoIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var errNanoIDLength = errors.New("[nano-id] length must be in [2, 255]")

// ClassicNanoID returns a generator of URL-safe random IDs. Random bytes
// are read ahead in batches of 64 IDs, the alphabet has 64 symbols so
// a byte maps to a symbol by masking without bias.
func ClassicNanoID(length int) (NanoIDGen, error) {
	if length < 2 || length > 255 {
		return nil, errNanoIDLength
	}

	batch := make([]byte, length*64)
	if _, err := crand.Read(batch); err != nil {
		return nil, fmt.Errorf("[nano-id] pre-allocate bytes failed, %w", err)
	}
	offset := 0
	mask := byte(len(nanoIDAlphabet) - 1)

	var lock sync.Mutex
	return func() string {
		lock.Lock()
		defer lock.Unlock()

		if offset == len(batch) {
			if _, err := crand.Read(batch); /* impossible */ err != nil {
				panic(fmt.Errorf("[nano-id] pre-allocate bytes failed (run out of data), %w", err))
			}
			offset = 0
		}
		nanoID := make([]byte, length)
		for i := range nanoID {
			nanoID[i] = nanoIDAlphabet[batch[offset+i]&mask]
		}
		offset += length
		return string(nanoID)
	}, nil
}
