package connector

import (
	"github.com/FerroO2000/blockring/internal/rb"
)

var _ Connector = (*BlockRing)(nil)

// ErrInvalidArgument is returned when a block ring is created
// with a non-positive block size or capacity.
var ErrInvalidArgument = rb.ErrInvalidArgument

// ErrTimeout is returned when no block is available within the read timeout.
var ErrTimeout = rb.ErrTimeout

// BlockRing is a bounded ring buffer of fixed-size blocks
// with overwrite-oldest policy on overflow.
type BlockRing = rb.BlockRing

// NewBlockRing returns a new block ring holding up to capacity
// blocks of blockSize bytes.
func NewBlockRing(blockSize, capacity int) (*BlockRing, error) {
	return rb.NewBlockRing(blockSize, capacity)
}
