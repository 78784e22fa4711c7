// Package compression wraps record streams and encoded blocks in snappy or
// zstd compression.
package compression

import (
	"fmt"
	"math"
	"strings"

	"github.com/mantoudev/hbase/common"
)

// Type is the compression algorithm to use.
type Type byte

const (
	None Type = iota
	Snappy
	Zstd
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", common.MalformedInputError, s)
	}
}

type ICompressor interface {
	Type() Type
	// Compress a block, appending the compressed data to dst[:0].
	Compress(dst, src []byte) ([]byte, error)
	// Decompress decompresses compressed into buf. The buf slice must have the
	// exact size as the decompressed value, see DecompressedLen.
	Decompress(buf, compressed []byte) error
	// DecompressedLen returns the length of the block once decompressed.
	DecompressedLen(b []byte) (int, error)
}

func NewCompressor(t Type) (ICompressor, error) {
	switch t {
	case None:
		return noneCompressor{}, nil
	case Snappy:
		return snappyCompressor{}, nil
	case Zstd:
		return zstdCompressor{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression type %d", common.MalformedInputError, t)
	}
}

type noneCompressor struct{}

func (noneCompressor) Type() Type {
	return None
}

func (noneCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}

func (noneCompressor) Decompress(buf, compressed []byte) error {
	if len(buf) != len(compressed) {
		return fmt.Errorf("%w: uncompressed block of %d bytes read into %d",
			common.StreamCorruptionError, len(compressed), len(buf))
	}
	copy(buf, compressed)
	return nil
}

func (noneCompressor) DecompressedLen(b []byte) (int, error) {
	return len(b), nil
}

// EncodeBlock compresses src and prefixes the result with the type byte.
func EncodeBlock(t Type, src []byte) ([]byte, error) {
	c, err := NewCompressor(t)
	if err != nil {
		return nil, err
	}
	compressed, err := c.Compress(nil, src)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(compressed))
	out = append(out, byte(t))
	return append(out, compressed...), nil
}

// DecodeBlock reverses EncodeBlock.
func DecodeBlock(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty block", common.StreamCorruptionError)
	}
	c, err := NewCompressor(Type(b[0]))
	if err != nil {
		return nil, err
	}
	n, err := c.DecompressedLen(b[1:])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: decompressed length %d out of range", common.StreamCorruptionError, n)
	}
	buf := make([]byte, n)
	if err := c.Decompress(buf, b[1:]); err != nil {
		return nil, err
	}
	return buf, nil
}

var _ ICompressor = noneCompressor{}
