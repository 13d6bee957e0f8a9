// Package rb provides a bounded ring buffer of fixed-size byte blocks.
//
// The producer side never blocks: when the ring is full the oldest block
// is overwritten and accounted as dropped. The consumer side blocks until
// a block arrives or the given timeout expires.
package rb

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// ErrInvalidArgument is returned when the ring is built with a non-positive
// block size or capacity, or when a destination buffer has the wrong size.
var ErrInvalidArgument = errors.New("block ring: invalid argument")

// ErrTimeout is returned when no block becomes available within the read timeout.
var ErrTimeout = errors.New("block ring: read timeout")

// BlockRing is a fixed-capacity circular buffer of fixed-size byte blocks.
// It is safe for concurrent use by multiple producers and consumers.
type BlockRing struct {
	// dropped counts the blocks overwritten before being read.
	// It is read without holding mux.
	dropped atomic.Uint64

	_ cpu.CacheLinePad

	// mux protects head, tail, count and the content of storage.
	mux *sync.Mutex

	head  int
	tail  int
	count int

	// storage holds capacity slots of blockSize bytes each.
	storage []byte

	_ cpu.CacheLinePad

	// notEmpty holds at most one pending wake-up for a waiting consumer.
	// Several offers may coalesce into a single wake-up.
	notEmpty chan struct{}

	blockSize int
	capacity  int
}

// NewBlockRing returns a new ring holding up to capacity blocks
// of exactly blockSize bytes.
func NewBlockRing(blockSize, capacity int) (*BlockRing, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size must be positive, got %d", ErrInvalidArgument, blockSize)
	}

	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}

	if capacity > math.MaxInt/blockSize {
		return nil, fmt.Errorf("%w: %d blocks of %d bytes overflow the addressable size",
			ErrInvalidArgument, capacity, blockSize)
	}

	return &BlockRing{
		mux: &sync.Mutex{},

		storage: make([]byte, blockSize*capacity),

		notEmpty: make(chan struct{}, 1),

		blockSize: blockSize,
		capacity:  capacity,
	}, nil
}

func (br *BlockRing) slot(idx int) []byte {
	start := idx * br.blockSize
	end := start + br.blockSize
	return br.storage[start:end:end]
}

func (br *BlockRing) next(idx int) int {
	idx++
	if idx == br.capacity {
		return 0
	}
	return idx
}

// signal leaves a wake-up for the consumer, unless one is already pending.
func (br *BlockRing) signal() {
	select {
	case br.notEmpty <- struct{}{}:
	default:
	}
}

// Offer copies the block into the ring. It never waits for the consumer.
// If the ring is full, the oldest block is discarded to make room.
// A block whose length differs from the block size (nil included)
// is ignored.
func (br *BlockRing) Offer(block []byte) {
	if len(block) != br.blockSize {
		return
	}

	br.mux.Lock()

	if br.count == br.capacity {
		// Overwrite the oldest block
		br.tail = br.next(br.tail)
		br.count--
		br.dropped.Add(1)
	}

	copy(br.slot(br.head), block)
	br.head = br.next(br.head)
	br.count++

	br.mux.Unlock()

	br.signal()
}

// pop copies the oldest block into dst.
// It returns false if the ring is empty.
func (br *BlockRing) pop(dst []byte) bool {
	br.mux.Lock()

	if br.count == 0 {
		br.mux.Unlock()
		return false
	}

	copy(dst, br.slot(br.tail))
	br.tail = br.next(br.tail)
	br.count--

	remaining := br.count

	br.mux.Unlock()

	// A coalesced wake-up may have covered more than one block,
	// pass it on so that other waiting consumers are not starved
	if remaining > 0 {
		br.signal()
	}

	return true
}

// ReadBlock removes the oldest block from the ring and returns a copy of it.
// If the ring is empty, it waits up to timeout for a block to be offered.
// It returns ErrTimeout if no block arrives in time.
func (br *BlockRing) ReadBlock(timeout time.Duration) ([]byte, error) {
	block := make([]byte, br.blockSize)

	if err := br.ReadBlockInto(block, timeout); err != nil {
		return nil, err
	}

	return block, nil
}

// ReadBlockInto is like ReadBlock, but it copies the oldest block into dst,
// which must be exactly one block long.
func (br *BlockRing) ReadBlockInto(dst []byte, timeout time.Duration) error {
	if len(dst) != br.blockSize {
		return fmt.Errorf("%w: destination is %d bytes, block size is %d",
			ErrInvalidArgument, len(dst), br.blockSize)
	}

	// Fast path, data is already there
	if br.pop(dst) {
		return nil
	}

	if timeout <= 0 {
		return ErrTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-br.notEmpty:
			// The wake-up may be stale or another consumer may have
			// already taken the block, so check again under the lock
			if br.pop(dst) {
				return nil
			}

		case <-timer.C:
			return ErrTimeout
		}
	}
}

// AvailableBlocks returns the number of blocks currently stored.
func (br *BlockRing) AvailableBlocks() int {
	br.mux.Lock()
	defer br.mux.Unlock()

	return br.count
}

// DroppedBlocks returns the number of blocks discarded because the ring was full.
// It does not contend with producers and consumers.
func (br *BlockRing) DroppedBlocks() uint64 {
	return br.dropped.Load()
}

// BlockSize returns the size in bytes of every block.
func (br *BlockRing) BlockSize() int {
	return br.blockSize
}

// Capacity returns the maximum number of blocks the ring can hold.
func (br *BlockRing) Capacity() int {
	return br.capacity
}
