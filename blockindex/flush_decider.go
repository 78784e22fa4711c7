package blockindex

import (
	"math"

	"github.com/mantoudev/hbase/keyvalue"
)

// IFlushDecider decides when the current block is closed.
type IFlushDecider interface {
	// ShouldFlush reports whether the block holding blockSize bytes of framed
	// records is closed before next is added.
	ShouldFlush(blockSize int, next *keyvalue.KeyValue) bool
}

// recordFlushDecider measures records as the stream writes them, so the
// length prefix and the tags region count toward the block.
type recordFlushDecider struct {
	// a block is never closed below minFill bytes
	minFill int
	target  int
}

// ShouldFlush keeps a block open until it holds minFill bytes. Past that the
// block closes as soon as next would push it beyond the target. An empty
// block always takes the record, however large.
func (d recordFlushDecider) ShouldFlush(blockSize int, next *keyvalue.KeyValue) bool {
	if blockSize == 0 || blockSize < d.minFill {
		return false
	}
	return blockSize+keyvalue.FramedLength(next, true) > d.target
}

// NewFlushDecider builds a decider for blocks of o.BlockSize bytes that are
// at least o.BlockSizeThreshold full when closed.
func NewFlushDecider(o Options) IFlushDecider {
	return recordFlushDecider{
		minFill: int(math.Ceil(float64(o.BlockSize) * float64(o.BlockSizeThreshold))),
		target:  o.BlockSize,
	}
}

var _ IFlushDecider = recordFlushDecider{}
