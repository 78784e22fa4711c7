package blockindex

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	hbtestutil "github.com/mantoudev/hbase/internal/testutil"
	"github.com/mantoudev/hbase/keyvalue"
)

// sortedRecords returns n records with increasing keys, several versions per
// row and text values of varying size.
func sortedRecords(t testing.TB, n int) []*keyvalue.KeyValue {
	t.Helper()
	r := rand.New(rand.NewSource(int64(n)))
	kvs := make([]*keyvalue.KeyValue, 0, n)
	for i := 0; i < n; i++ {
		row := fmt.Sprintf("row-%05d", i/3)
		ts := int64(100 - i%3)
		kv, err := keyvalue.New([]byte(row), []byte("cf"), []byte("q"), ts, keyvalue.TypePut,
			[]byte(hbtestutil.RandomQuote(r)))
		require.NoError(t, err)
		kvs = append(kvs, kv)
	}
	return kvs
}

// buildStream writes kvs as a framed stream and indexes them on the way.
func buildStream(t testing.TB, b *Builder, kvs []*keyvalue.KeyValue) ([]byte, *Index) {
	t.Helper()
	var buf bytes.Buffer
	sw := keyvalue.NewStreamWriter(&buf, true)
	for _, kv := range kvs {
		require.NoError(t, sw.Write(kv))
		require.NoError(t, b.Add(kv))
	}
	require.NoError(t, sw.Close())
	return buf.Bytes(), b.Finish()
}

func TestBuilder_BlocksCoverStream(t *testing.T) {
	kvs := sortedRecords(t, 400)
	stream, ix := buildStream(t, NewBuilder(comparer.StandardComparator(), WithBlockSize(512)), kvs)
	require.Greater(t, ix.Len(), 1)

	maxRecord := 0
	for _, kv := range kvs {
		maxRecord = max(maxRecord, keyvalue.FramedLength(kv, true))
	}

	entries := ix.Entries()
	var next int64
	records := 0
	for _, e := range entries {
		assert.Equal(t, next, e.Offset)
		assert.LessOrEqual(t, e.Length, int64(512+maxRecord))
		next = e.Offset + e.Length
		records += e.Records
	}
	assert.Equal(t, len(kvs), records)
	// everything but the end-of-stream marker
	assert.Equal(t, int64(len(stream)-keyvalue.FrameLengthSize), next)
}

func TestBuilder_IndexKeysSeparateBlocks(t *testing.T) {
	c := comparer.StandardComparator()
	kvs := sortedRecords(t, 300)
	stream, ix := buildStream(t, NewBuilder(c, WithBlockSize(256)), kvs)

	r := bytes.NewReader(stream)
	var prevLast keyvalue.Key
	for i, e := range ix.Entries() {
		block, err := ReadBlock(r, e)
		require.NoError(t, err)
		first := block[0].Key()
		if i == 0 {
			assert.Equal(t, first, e.Key)
		} else {
			assert.Negative(t, c.CompareKeys(prevLast, e.Key), e.String())
			assert.LessOrEqual(t, c.CompareKeys(e.Key, first), 0, e.String())
			// rows differ at a single digit, the midpoint is a short row
			assert.LessOrEqual(t, e.Key.RowLength(), len(first.Row()))
		}
		prevLast = block[len(block)-1].CopyKey()
	}
}

func TestIndex_Search(t *testing.T) {
	for _, c := range []comparer.IComparator{
		comparer.StandardComparator(),
		comparer.CatalogComparator(),
		comparer.RawComparator(),
	} {
		t.Run(c.Name(), func(t *testing.T) {
			kvs := sortedRecords(t, 200)
			stream, built := buildStream(t, NewBuilder(c, WithBlockSize(300)), kvs)
			ix, err := Decode(c, built.Encode())
			require.NoError(t, err)
			assert.Equal(t, built.Entries(), ix.Entries())

			r := bytes.NewReader(stream)
			for _, kv := range kvs {
				e, ok := ix.Search(kv.Key())
				require.True(t, ok, kv.String())
				block, err := ReadBlock(r, e)
				require.NoError(t, err)
				found := false
				for _, got := range block {
					if got.Equal(kv) {
						found = true
						break
					}
				}
				assert.True(t, found, kv.String())
			}

			before, err := keyvalue.FirstOnRow([]byte("a"))
			require.NoError(t, err)
			_, ok := ix.Search(before.Key())
			assert.False(t, ok)

			after, err := keyvalue.FirstOnRow([]byte("zzz"))
			require.NoError(t, err)
			e, ok := ix.Search(after.Key())
			assert.True(t, ok)
			assert.Equal(t, ix.Entry(ix.Len()-1), e)
		})
	}
}

func TestBuilder_OutOfOrder(t *testing.T) {
	b := NewBuilder(comparer.StandardComparator())
	kvs := sortedRecords(t, 2)
	require.NoError(t, b.Add(kvs[1]))

	err := b.Add(kvs[0])
	assert.True(t, errors.Is(err, common.MalformedInputError), err)
	err = b.Add(kvs[1])
	assert.True(t, errors.Is(err, common.MalformedInputError), "duplicate key must be rejected")
}

func TestBuilder_Empty(t *testing.T) {
	ix := NewBuilder(comparer.StandardComparator()).Finish()
	assert.Equal(t, 0, ix.Len())
	k, err := keyvalue.FirstOnRow([]byte("a"))
	require.NoError(t, err)
	_, ok := ix.Search(k.Key())
	assert.False(t, ok)
}

// unhelpfulComparator proposes the previous key as the midpoint, which the
// builder must reject.
type unhelpfulComparator struct {
	comparer.IComparator
}

func (unhelpfulComparator) ShortMidpointKey(left, _ keyvalue.Key) (keyvalue.Key, error) {
	return left, nil
}

func TestBuilder_Metrics(t *testing.T) {
	tests := []struct {
		name          string
		cmp           comparer.IComparator
		wantFallbacks bool
	}{
		{name: "midpoints", cmp: comparer.StandardComparator()},
		{name: "fallbacks", cmp: unhelpfulComparator{comparer.StandardComparator()}, wantFallbacks: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			b := NewBuilder(tc.cmp, WithBlockSize(256), WithBlockSizeThreshold(0.5), WithRegisterer(reg))
			_, ix := buildStream(t, b, sortedRecords(t, 120))

			assert.Equal(t, float64(ix.Len()), testutil.ToFloat64(b.metrics.blocksTotal))
			fallbacks := testutil.ToFloat64(b.metrics.midpointFallbacksTotal)
			if tc.wantFallbacks {
				assert.Equal(t, float64(ix.Len()-1), fallbacks)
			} else {
				assert.Zero(t, fallbacks)
			}

			n, err := testutil.GatherAndCount(reg)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	kvs := sortedRecords(t, 20)
	_, ix := buildStream(t, NewBuilder(comparer.StandardComparator(), WithBlockSize(128)), kvs)
	encoded := ix.Encode()

	tests := []struct {
		name string
		cmp  comparer.IComparator
		buf  []byte
	}{
		{name: "empty", cmp: comparer.StandardComparator(), buf: nil},
		{name: "other comparator", cmp: comparer.CatalogComparator(), buf: encoded},
		{name: "truncated entry", cmp: comparer.StandardComparator(), buf: encoded[:len(encoded)-3]},
		{name: "truncated name", cmp: comparer.StandardComparator(), buf: encoded[:4]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.cmp, tc.buf)
			assert.True(t, errors.Is(err, common.MalformedInputError), err)
		})
	}
}

func TestReadBlock_RecordCountMismatch(t *testing.T) {
	kvs := sortedRecords(t, 10)
	stream, ix := buildStream(t, NewBuilder(comparer.StandardComparator()), kvs)
	e := ix.Entry(0)
	e.Records++
	_, err := ReadBlock(bytes.NewReader(stream), e)
	assert.True(t, errors.Is(err, common.StreamCorruptionError), err)
}
