package blockindex

import "github.com/prometheus/client_golang/prometheus"

type Options struct {
	// BlockSize is the target size in bytes of each block, counted as
	// stream-framed records.
	//
	// The default value is 4KB.
	BlockSize int

	// BlockSizeThreshold closes a block once it is larger than this share of
	// BlockSize and the next record would push it past BlockSize.
	//
	// The default value is 0.9.
	BlockSizeThreshold float32

	// Registerer receives the builder counters. Counters are kept but not
	// registered when it is nil.
	Registerer prometheus.Registerer
}

type OptFn func(o *Options)

var DefaultOptions = Options{
	BlockSize:          4 * 1024,
	BlockSizeThreshold: 0.9,
}

func WithBlockSize(blockSize int) OptFn {
	return func(o *Options) {
		o.BlockSize = blockSize
	}
}

func WithBlockSizeThreshold(blockSizeThreshold float32) OptFn {
	return func(o *Options) {
		o.BlockSizeThreshold = blockSizeThreshold
	}
}

func WithRegisterer(reg prometheus.Registerer) OptFn {
	return func(o *Options) {
		o.Registerer = reg
	}
}
