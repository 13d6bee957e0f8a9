// Package connector contains the connectors used to link
// a producer stage with a consumer stage.
package connector

import "time"

// Connector is the interface of a block connector.
// The producer side never blocks, the consumer side waits
// at most the given timeout.
type Connector interface {
	// Offer stores a copy of the block, discarding the oldest one if full.
	// Blocks of the wrong size are ignored.
	Offer(block []byte)
	// ReadBlock returns the oldest block, waiting up to timeout for one.
	ReadBlock(timeout time.Duration) ([]byte, error)
	// AvailableBlocks returns the number of stored blocks.
	AvailableBlocks() int
	// DroppedBlocks returns the number of blocks discarded on overflow.
	DroppedBlocks() uint64
	// BlockSize returns the size of every block.
	BlockSize() int
}
