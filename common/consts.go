package common

import "math"

const (
	// LatestTimestamp asks the writer to substitute the current time.
	LatestTimestamp int64 = math.MaxInt64
	// OldestTimestamp is the smallest possible timestamp.
	OldestTimestamp int64 = math.MinInt64

	// CatalogDelimiter separates the segments of a catalog row key.
	CatalogDelimiter byte = ','
	// ColumnFamilyDelimiter separates family and qualifier in the textual
	// "family:qualifier" notation.
	ColumnFamilyDelimiter byte = ':'

	// MaxValueLength is the default upper bound of a record value.
	MaxValueLength = math.MaxInt32 - 1
)
