package comparer

import (
	"errors"
	"slices"
	"testing"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/keyvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(t testing.TB, row, family, qualifier string, ts int64, typ keyvalue.Type) keyvalue.Key {
	t.Helper()
	kv, err := keyvalue.New([]byte(row), []byte(family), []byte(qualifier), ts, typ, nil)
	require.NoError(t, err)
	return kv.Key()
}

func TestStandard_CompareKeys(t *testing.T) {
	tests := []struct {
		name string
		a    keyvalue.Key
		b    keyvalue.Key
		want int
	}{
		{
			name: "equal",
			a:    key(t, "row1", "cf", "q", 5, keyvalue.TypePut),
			b:    key(t, "row1", "cf", "q", 5, keyvalue.TypePut),
			want: 0,
		},
		{
			name: "row decides",
			a:    key(t, "a", "z", "z", 1, keyvalue.TypePut),
			b:    key(t, "b", "a", "a", 9, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "shorter row with equal prefix first",
			a:    key(t, "row", "cf", "q", 1, keyvalue.TypePut),
			b:    key(t, "row1", "cf", "q", 1, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "newer timestamp first",
			a:    key(t, "a", "cf", "q", 200, keyvalue.TypePut),
			b:    key(t, "a", "cf", "q", 100, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "larger type code first",
			a:    key(t, "a", "cf", "q", 100, keyvalue.TypeDeleteColumn),
			b:    key(t, "a", "cf", "q", 100, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "qualifier after family",
			a:    key(t, "a", "cf", "a", 1, keyvalue.TypePut),
			b:    key(t, "a", "cf", "b", 9, keyvalue.TypePut),
			want: -1,
		},
		{
			// the concatenated columns "azz" and "ab" order the other way
			name: "family length mismatch decided by family alone",
			a:    key(t, "a", "a", "zz", 1, keyvalue.TypePut),
			b:    key(t, "a", "ab", "", 1, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "empty column first",
			a:    key(t, "a", "", "", 1, keyvalue.TypePut),
			b:    key(t, "a", "cf", "q", 9, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "last-on-row sentinel after every column",
			a:    key(t, "a", "", "", 1, keyvalue.TypeMinimum),
			b:    key(t, "a", "zz", "zz", 0, keyvalue.TypeDeleteFamily),
			want: 1,
		},
		{
			name: "last-on-row sentinel stays inside its row",
			a:    key(t, "a", "", "", 1, keyvalue.TypeMinimum),
			b:    key(t, "b", "", "", 1, keyvalue.TypeMaximum),
			want: -1,
		},
		{
			name: "first-on-row sentinel before every column",
			a:    key(t, "a", "", "", 1, keyvalue.TypeMaximum),
			b:    key(t, "a", "", "", 9, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "two last-on-row sentinels fall back to timestamps",
			a:    key(t, "a", "", "", 10, keyvalue.TypeMinimum),
			b:    key(t, "a", "", "", 5, keyvalue.TypeMinimum),
			want: -1,
		},
		{
			name: "identical sentinels are equal",
			a:    key(t, "a", "", "", 10, keyvalue.TypeMinimum),
			b:    key(t, "a", "", "", 10, keyvalue.TypeMinimum),
			want: 0,
		},
	}

	c := StandardComparator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CompareKeys(tt.a, tt.b))
			assert.Equal(t, -tt.want, c.CompareKeys(tt.b, tt.a))
			assert.Equal(t, tt.want, c.Compare(tt.a, tt.b))
		})
	}
}

func TestStandard_TimestampScenario(t *testing.T) {
	older, err := keyvalue.New([]byte("a"), []byte("cf"), []byte("q"), 100, keyvalue.TypePut, []byte("old"))
	require.NoError(t, err)
	newer, err := keyvalue.New([]byte("a"), []byte("cf"), []byte("q"), 200, keyvalue.TypePut, []byte("new"))
	require.NoError(t, err)

	c := StandardComparator()
	assert.Equal(t, -1, c.Compare(newer, older))

	// a key-only view compares like the record it was cut from
	view := keyvalue.NewKeyOnly(older.Buffer(), older.KeyOffset(), older.KeyLength())
	assert.Equal(t, 0, c.Compare(view, older))
	assert.Equal(t, -1, c.Compare(newer, view))
}

func TestCatalog_CompareRows(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "trailing id decides", a: "table,,id1", b: "table,,id2", want: -1},
		{name: "table decides", a: "a,zzz,9", b: "b,aaa,1", want: -1},
		{name: "middle decides", a: "t,a,9", b: "t,b,1", want: -1},
		{name: "middle keeps inner delimiters", a: "t,a,b,9", b: "t,a,c,1", want: -1},
		{name: "missing delimiter first", a: "table", b: "table,", want: -1},
		{name: "missing second delimiter first", a: "t,a", b: "t,a,", want: -1},
		{name: "equal", a: "t,a,1", b: "t,a,1", want: 0},
		{name: "plain bytes would say otherwise", a: "t,a,2", b: "t,a+b,1", want: -1},
		{name: "segment before longer table", a: "t,z,1", b: "t1,a,1", want: -1},
	}

	c := CatalogComparator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CompareRows([]byte(tt.a), []byte(tt.b)))
			assert.Equal(t, -tt.want, c.CompareRows([]byte(tt.b), []byte(tt.a)))

			ka, kb := key(t, tt.a, "info", "server", 1, keyvalue.TypePut), key(t, tt.b, "info", "server", 1, keyvalue.TypePut)
			assert.Equal(t, tt.want, c.CompareKeys(ka, kb))
		})
	}
}

func TestCatalog_NonRowFieldsFollowStandard(t *testing.T) {
	c := CatalogComparator()
	a := key(t, "t,,1", "info", "a", 200, keyvalue.TypePut)
	b := key(t, "t,,1", "info", "a", 100, keyvalue.TypePut)
	assert.Equal(t, -1, c.CompareKeys(a, b))

	last := key(t, "t,,1", "", "", 1, keyvalue.TypeMinimum)
	assert.Equal(t, 1, c.CompareKeys(last, b))
}

func TestRaw_CompareKeys(t *testing.T) {
	tests := []struct {
		name string
		a    keyvalue.Key
		b    keyvalue.Key
		want int
	}{
		{
			name: "type ascending",
			a:    key(t, "a", "cf", "q", 1, keyvalue.TypePut),
			b:    key(t, "a", "cf", "q", 1, keyvalue.TypeDelete),
			want: -1,
		},
		{
			name: "timestamp descending",
			a:    key(t, "a", "cf", "q", 200, keyvalue.TypePut),
			b:    key(t, "a", "cf", "q", 100, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "no sentinels",
			a:    key(t, "a", "", "", 1, keyvalue.TypeMinimum),
			b:    key(t, "a", "cf", "q", 1, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "family compared on its own",
			a:    key(t, "a", "ab", "", 1, keyvalue.TypePut),
			b:    key(t, "a", "b", "", 1, keyvalue.TypePut),
			want: -1,
		},
		{
			name: "qualifier after family",
			a:    key(t, "a", "a", "zz", 1, keyvalue.TypePut),
			b:    key(t, "a", "ab", "", 1, keyvalue.TypePut),
			want: -1,
		},
	}

	c := RawComparator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CompareKeys(tt.a, tt.b))
			assert.Equal(t, -tt.want, c.CompareKeys(tt.b, tt.a))
			assert.Equal(t, tt.want, c.CompareIgnoringPrefix(CommonPrefix(tt.a, tt.b), tt.a, tt.b))
		})
	}
}

func TestCompareColumnsAndMatching(t *testing.T) {
	c := StandardComparator()
	a := key(t, "r", "cf", "a", 1, keyvalue.TypePut)
	b := key(t, "r", "cf", "b", 2, keyvalue.TypePut)
	other := key(t, "s", "cf", "a", 1, keyvalue.TypePut)
	shifted := key(t, "r", "cfa", "", 1, keyvalue.TypePut)

	assert.Equal(t, -1, c.CompareColumns(a, b))
	assert.Equal(t, 0, c.CompareColumns(a, other))
	assert.Equal(t, -1, c.CompareColumns(a, shifted))

	assert.True(t, c.MatchingRows(a, b))
	assert.False(t, c.MatchingRows(a, other))
	assert.True(t, c.MatchingRowColumn(a, key(t, "r", "cf", "a", 9, keyvalue.TypeDelete)))
	assert.False(t, c.MatchingRowColumn(a, b))
	assert.False(t, c.MatchingRowColumn(a, shifted))
	assert.False(t, c.MatchingRowColumn(a, key(t, "r", "cf", "ab", 1, keyvalue.TypePut)))

	assert.Equal(t, 0, c.CompareCellRows(a, b))
	assert.Equal(t, -1, c.CompareCellRows(a, other))
}

func TestCompareWithSeqNum(t *testing.T) {
	a, err := keyvalue.New([]byte("r"), []byte("cf"), []byte("q"), 1, keyvalue.TypePut, []byte("x"))
	require.NoError(t, err)
	b := a.Clone()
	a.SetSeqNum(5)
	b.SetSeqNum(9)

	c := StandardComparator()
	assert.Equal(t, 0, c.Compare(a, b))
	assert.Equal(t, 1, CompareWithSeqNum(c, a, b))
	assert.Equal(t, -1, CompareWithSeqNum(c, b, a))
	assert.Equal(t, 0, CompareWithSeqNum(c, a, a))
}

func TestNewComparer(t *testing.T) {
	tests := []struct {
		class Class
		name  string
	}{
		{class: Standard, name: "hbase.KeyValueComparator"},
		{class: Catalog, name: "hbase.CatalogComparator"},
		{class: Raw, name: "hbase.RawComparator"},
	}

	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			c, err := NewComparer(tt.class)
			require.NoError(t, err)
			assert.Equal(t, tt.class, c.Class())
			assert.Equal(t, tt.name, c.Name())

			parsed, err := ParseClass(tt.class.String())
			require.NoError(t, err)
			assert.Equal(t, tt.class, parsed)
		})
	}

	_, err := NewComparer(Class(42))
	assert.True(t, errors.Is(err, common.MalformedInputError))
	_, err = ParseClass("meta")
	assert.True(t, errors.Is(err, common.MalformedInputError))
	assert.Equal(t, "Class(42)", Class(42).String())
}

func TestSortAndSearch(t *testing.T) {
	var kvs []*keyvalue.KeyValue
	for _, f := range []struct {
		row string
		ts  int64
		seq keyvalue.SeqNum
	}{
		{"c", 1, 1}, {"a", 1, 1}, {"b", 5, 1}, {"b", 9, 1}, {"a", 1, 7},
	} {
		kv, err := keyvalue.New([]byte(f.row), []byte("cf"), nil, f.ts, keyvalue.TypePut, nil)
		require.NoError(t, err)
		kv.SetSeqNum(f.seq)
		kvs = append(kvs, kv)
	}

	c := StandardComparator()
	ok, at := IsSorted(c, kvs)
	assert.False(t, ok)
	assert.Equal(t, 1, at)

	Sort(c, kvs)
	ok, at = IsSorted(c, kvs)
	assert.True(t, ok)
	assert.Equal(t, -1, at)

	var got []string
	for _, kv := range kvs {
		got = append(got, kv.Key().String()+"#"+string(rune('0'+kv.SeqNum())))
	}
	assert.Equal(t, []string{
		"a/cf:/1/Put#7", "a/cf:/1/Put#1", "b/cf:/9/Put#1", "b/cf:/5/Put#1", "c/cf:/1/Put#1",
	}, got)

	keyAt := func(i int) keyvalue.Key { return kvs[i].Key() }
	assert.Equal(t, 0, SearchKey(c, len(kvs), keyAt, key(t, "a", "", "", 1, keyvalue.TypeMaximum)))
	assert.Equal(t, 2, SearchKey(c, len(kvs), keyAt, key(t, "b", "", "", 1, keyvalue.TypeMaximum)))
	assert.Equal(t, 3, SearchKey(c, len(kvs), keyAt, key(t, "b", "cf", "", 7, keyvalue.TypePut)))
	assert.Equal(t, 5, SearchKey(c, len(kvs), keyAt, key(t, "d", "", "", 1, keyvalue.TypeMaximum)))
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, 0, CommonPrefix(nil, []byte("a")))
	assert.Equal(t, 2, CommonPrefix([]byte("abc"), []byte("abd")))
	assert.Equal(t, 3, CommonPrefix([]byte("abc"), []byte("abcd")))
}

func TestRowOnly(t *testing.T) {
	var kvs []*keyvalue.KeyValue
	for _, f := range []struct{ row, qualifier string }{
		{"b", "x"}, {"a", "z"}, {"b", "a"}, {"a", "a"},
	} {
		kv, err := keyvalue.New([]byte(f.row), []byte("cf"), []byte(f.qualifier), 1, keyvalue.TypePut, nil)
		require.NoError(t, err)
		kvs = append(kvs, kv)
	}

	slices.SortStableFunc(kvs, RowOnly(StandardComparator()))
	var got []string
	for _, kv := range kvs {
		got = append(got, string(kv.Row())+"/"+string(kv.Qualifier()))
	}
	// stable within a row
	assert.Equal(t, []string{"a/z", "a/a", "b/x", "b/a"}, got)
}

func TestLowestKey(t *testing.T) {
	lowest := keyvalue.LowestKey()
	c := StandardComparator()
	for _, row := range []string{"", "\x00", "a"} {
		assert.Negative(t, c.CompareKeys(lowest.Key(), key(t, row, "cf", "q", 1, keyvalue.TypePut)), row)
	}
}
