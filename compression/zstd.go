package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/DataDog/zstd"

	"github.com/mantoudev/hbase/common"
)

const defaultZstdLevel = 3

type zstdCompressor struct{}

func (zstdCompressor) Type() Type {
	return Zstd
}

// Compress prefixes the zstd frame with the uvarint length of src.
func (zstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	// Size dst from the bound up front so the library writes in place after
	// the length prefix.
	bound := zstd.CompressBound(len(src))
	if cap(dst) < binary.MaxVarintLen64+bound {
		dst = make([]byte, binary.MaxVarintLen64+bound)
	}
	dst = dst[:binary.MaxVarintLen64+bound]

	varIntLen := binary.PutUvarint(dst, uint64(len(src)))
	result, err := zstd.NewCtx().CompressLevel(dst[varIntLen:varIntLen+bound], src, defaultZstdLevel)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	if len(result) == 0 || &result[0] != &dst[varIntLen] {
		// the library allocated despite the bound
		return append(dst[:varIntLen], result...), nil
	}
	return dst[:varIntLen+len(result)], nil
}

func (zstdCompressor) Decompress(buf, compressed []byte) error {
	n, prefixLen := binary.Uvarint(compressed)
	if prefixLen <= 0 {
		return fmt.Errorf("%w: zstd: bad length prefix", common.StreamCorruptionError)
	}
	if int(n) != len(buf) {
		return fmt.Errorf("%w: zstd: block of %d bytes read into %d",
			common.StreamCorruptionError, n, len(buf))
	}
	if n == 0 {
		return nil
	}
	got, err := zstd.NewCtx().DecompressInto(buf, compressed[prefixLen:])
	if err != nil {
		return fmt.Errorf("%w: zstd: %w", common.StreamCorruptionError, err)
	}
	if got != len(buf) {
		return fmt.Errorf("%w: zstd: compressed data mismatch", common.StreamCorruptionError)
	}
	return nil
}

func (zstdCompressor) DecompressedLen(b []byte) (int, error) {
	n, varIntLen := binary.Uvarint(b)
	if varIntLen <= 0 {
		return 0, fmt.Errorf("%w: zstd: bad length prefix", common.StreamCorruptionError)
	}
	return int(n), nil
}

var _ ICompressor = zstdCompressor{}
