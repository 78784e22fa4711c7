package filter

import (
	"encoding/binary"
	"fmt"

	"github.com/twmb/murmur3"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/keyvalue"
)

const (
	DefaultBitsPerKey = 10
	MinBitsPerKey     = 1
	MaxBitsPerKey     = 20

	blockBytesSize = 64 // one CPU cache line
	blockBitsSize  = 8 * blockBytesSize
	// probes byte plus the little-endian block count
	trailerSize = 5
)

type Options struct {
	BitsPerKey int
	// Comparator decides the order cells must be added in. Only its row and
	// column comparisons are used.
	Comparator comparer.IComparator
}

type OptFn func(o *Options)

func WithBitsPerKey(n int) OptFn {
	return func(o *Options) {
		o.BitsPerKey = n
	}
}

func WithComparator(c comparer.IComparator) OptFn {
	return func(o *Options) {
		o.Comparator = c
	}
}

// Writer builds a blocked bloom filter over the rows, or rows and columns, of
// a sorted run of cells. Each key sets its probe bits inside a single 64 byte
// block, see https://save-buffer.github.io/bloom_filter.html
//
// bitsPerKey trades size for precision: the false positive rate falls
// roughly as 0.6185^bitsPerKey, with diminishing returns past 10.
type Writer struct {
	typ        BloomType
	bitsPerKey int
	cmp        comparer.IComparator

	hashes []uint32
	prev   keyvalue.Key
}

func NewWriter(typ BloomType, opts ...OptFn) (*Writer, error) {
	o := &Options{
		BitsPerKey: DefaultBitsPerKey,
		Comparator: comparer.RawComparator(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if typ != BloomRow && typ != BloomRowCol {
		return nil, fmt.Errorf("%w: unknown bloom type %d", common.MalformedInputError, typ)
	}
	if o.BitsPerKey < MinBitsPerKey || o.BitsPerKey > MaxBitsPerKey {
		return nil, fmt.Errorf("%w: bits per key %d not in [%d, %d]",
			common.MalformedInputError, o.BitsPerKey, MinBitsPerKey, MaxBitsPerKey)
	}
	return &Writer{
		typ:        typ,
		bitsPerKey: o.BitsPerKey,
		cmp:        o.Comparator,
	}, nil
}

// Add records c. Repeats of the previous row (or row and column) are
// skipped; a cell sorting before the previous one is rejected.
func (w *Writer) Add(c keyvalue.Cell) error {
	k := c.Key()
	if w.prev != nil {
		r := w.cmp.CompareRows(w.prev.Row(), k.Row())
		if r == 0 && w.typ == BloomRowCol {
			r = w.cmp.CompareColumns(w.prev, k)
		}
		if r > 0 {
			return fmt.Errorf("%w: %s added after %s", common.MalformedInputError, k, w.prev)
		}
		if r == 0 {
			return nil
		}
	}

	if w.typ == BloomRow {
		w.hashes = append(w.hashes, murmur3.Sum32(k.Row()))
	} else {
		h, err := rowColHash(k.Row(), k.Family(), k.Qualifier())
		if err != nil {
			return err
		}
		w.hashes = append(w.hashes, h)
	}
	w.prev = k.Clone()
	return nil
}

// Count returns the number of distinct keys added since the last Build.
func (w *Writer) Count() int {
	return len(w.hashes)
}

// Build encodes the filter as [blocks][probes:1][block count:4] and resets
// the writer.
func (w *Writer) Build() []byte {
	// Make the block count odd so more hash bits decide the block.
	nBlocks := (len(w.hashes)*w.bitsPerKey + blockBitsSize - 1) / blockBitsSize
	if nBlocks%2 == 0 {
		nBlocks++
	}
	nBytes := nBlocks * blockBytesSize
	out := make([]byte, nBytes+trailerSize)

	nProbes := calculateProbes(w.bitsPerKey)
	for _, h := range w.hashes {
		delta := h>>17 | h<<15
		block := (h % uint32(nBlocks)) * blockBitsSize
		for p := byte(0); p < nProbes; p++ {
			bitPos := block + (h % blockBitsSize)
			out[bitPos/8] |= 1 << (bitPos % 8)
			h += delta
		}
	}
	out[nBytes] = nProbes
	binary.LittleEndian.PutUint32(out[nBytes+1:], uint32(nBlocks))

	w.hashes = w.hashes[:0]
	w.prev = nil
	return out
}

// MayContain reports whether row may have been added to filter. It never
// returns false for a row that was.
func MayContain(filter, row []byte) bool {
	return mayContainHash(filter, murmur3.Sum32(row))
}

// MayContainColumn is MayContain for a filter built with BloomRowCol.
func MayContainColumn(filter, row, family, qualifier []byte) bool {
	h, err := rowColHash(row, family, qualifier)
	if err != nil {
		return false
	}
	return mayContainHash(filter, h)
}

func mayContainHash(filter []byte, h uint32) bool {
	if len(filter) <= trailerSize {
		return false
	}
	n := len(filter) - trailerSize
	nProbes := filter[n]
	nBlocks := binary.LittleEndian.Uint32(filter[n+1:])
	if nBlocks == 0 || uint32(n)%nBlocks != 0 {
		return false
	}
	blockBits := 8 * (uint32(n) / nBlocks)

	delta := h>>17 | h<<15
	block := (h % nBlocks) * blockBits
	for p := byte(0); p < nProbes; p++ {
		bitPos := block + (h % blockBits)
		if filter[bitPos/8]&(1<<(bitPos%8)) == 0 {
			return false
		}
		h += delta
	}
	return true
}

// rowColHash hashes the first-on-column key of the cell's column, so every
// version of a column maps to the same filter key.
func rowColHash(row, family, qualifier []byte) (uint32, error) {
	kv, err := keyvalue.FirstOnRowColumn(row, family, qualifier)
	if err != nil {
		return 0, err
	}
	return murmur3.Sum32(kv.Key()), nil
}

func calculateProbes(bitsPerKey int) byte {
	n := byte(float64(bitsPerKey) * 0.69) // ln(2)
	if n < 1 {
		n = 1
	}
	if n > 30 {
		n = 30
	}
	return n
}

// Name identifies the filter encoding.
func Name(typ BloomType) string {
	return "hbase.BlockedBloomFilter." + typ.String()
}
