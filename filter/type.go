package filter

import (
	"fmt"
	"strings"

	"github.com/mantoudev/hbase/common"
)

// BloomType selects what a filter records membership of.
type BloomType byte

const (
	// BloomRow records rows.
	BloomRow BloomType = iota
	// BloomRowCol records row and column pairs.
	BloomRowCol
)

func (t BloomType) String() string {
	switch t {
	case BloomRow:
		return "row"
	case BloomRowCol:
		return "rowcol"
	default:
		return fmt.Sprintf("BloomType(%d)", byte(t))
	}
}

func ParseBloomType(s string) (BloomType, error) {
	switch strings.ToLower(s) {
	case "row":
		return BloomRow, nil
	case "rowcol":
		return BloomRowCol, nil
	default:
		return 0, fmt.Errorf("%w: unknown bloom type %q", common.MalformedInputError, s)
	}
}
