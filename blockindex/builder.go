package blockindex

import (
	"fmt"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/keyvalue"
)

// Builder cuts a sorted run of records into blocks and indexes them. Block
// boundaries and offsets follow the stream framing written by
// keyvalue.StreamWriter with tags, so the index addresses that stream.
type Builder struct {
	cmp     comparer.IComparator
	decider IFlushDecider
	metrics *metrics

	buf     []byte
	offsets []int

	// current block
	first      keyvalue.Key
	last       keyvalue.Key
	blockStart int64
	blockSize  int
	records    int

	// last key of the previous block
	prevLast keyvalue.Key
	offset   int64
}

func NewBuilder(cmp comparer.IComparator, opts ...OptFn) *Builder {
	o := DefaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{
		cmp:     cmp,
		decider: NewFlushDecider(o),
		metrics: newMetrics(o.Registerer),
	}
}

// Add appends kv to the current block, closing the block first if kv would
// overfill it. Keys must be strictly increasing.
func (b *Builder) Add(kv *keyvalue.KeyValue) error {
	key := kv.Key()
	if b.last != nil && b.cmp.CompareKeys(b.last, key) >= 0 {
		return fmt.Errorf("%w: %s added after %s", common.MalformedInputError, key, b.last)
	}

	if b.decider.ShouldFlush(b.blockSize, kv) {
		b.cut()
	}
	size := keyvalue.FramedLength(kv, true)
	if b.records == 0 {
		b.first = key.Clone()
		b.blockStart = b.offset
	}
	b.last = append(b.last[:0], key...)
	b.blockSize += size
	b.offset += int64(size)
	b.records++
	return nil
}

func (b *Builder) cut() {
	key := b.first
	if len(b.offsets) > 0 {
		var fellBack bool
		key, fellBack = comparer.IndexKey(b.cmp, b.prevLast, b.first)
		if fellBack {
			b.metrics.midpointFallbacksTotal.Inc()
		}
	}
	b.offsets = append(b.offsets, len(b.buf))
	b.buf = appendEntry(b.buf, Entry{
		Key:     key,
		Offset:  b.blockStart,
		Length:  int64(b.blockSize),
		Records: b.records,
	})
	b.metrics.blocksTotal.Inc()

	b.prevLast = append(b.prevLast[:0], b.last...)
	b.blockSize = 0
	b.records = 0
}

// Finish closes the open block and returns the index. The builder starts
// over afterwards.
func (b *Builder) Finish() *Index {
	if b.records > 0 {
		b.cut()
	}
	ix := &Index{cmp: b.cmp, buf: b.buf, offsets: b.offsets}

	b.buf, b.offsets = nil, nil
	b.first, b.last, b.prevLast = nil, nil, nil
	b.offset = 0
	return ix
}
