package compression

import (
	"fmt"

	"github.com/golang/snappy"

	"github.com/mantoudev/hbase/common"
)

type snappyCompressor struct{}

func (snappyCompressor) Type() Type {
	return Snappy
}

func (snappyCompressor) Compress(dst, src []byte) ([]byte, error) {
	dst = dst[:cap(dst):cap(dst)]
	return snappy.Encode(dst, src), nil
}

func (snappyCompressor) Decompress(buf, compressed []byte) error {
	res, err := snappy.Decode(buf, compressed)
	if err != nil {
		return fmt.Errorf("%w: snappy: %w", common.StreamCorruptionError, err)
	}
	if len(res) != len(buf) || (len(res) > 0 && &res[0] != &buf[0]) {
		return fmt.Errorf("%w: snappy: compressed data mismatch", common.StreamCorruptionError)
	}
	return nil
}

func (snappyCompressor) DecompressedLen(b []byte) (int, error) {
	n, err := snappy.DecodedLen(b)
	if err != nil {
		return 0, fmt.Errorf("%w: snappy: %w", common.StreamCorruptionError, err)
	}
	return n, nil
}

var _ ICompressor = snappyCompressor{}
