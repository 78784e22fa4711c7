package compression

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/golang/snappy"

	"github.com/mantoudev/hbase/common"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w so that everything written is compressed with t. Close
// flushes the compressor but does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None:
		return nopWriteCloser{w}, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case Zstd:
		return zstd.NewWriterLevel(w, defaultZstdLevel), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression type %d", common.MalformedInputError, t)
	}
}

// NewReader reverses NewWriter.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case None:
		return io.NopCloser(r), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case Zstd:
		return zstd.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression type %d", common.MalformedInputError, t)
	}
}
