package comparer

import (
	"fmt"
	"strings"

	"github.com/mantoudev/hbase/common"
)

// Class selects the ordering used for a table.
type Class int

const (
	// Standard orders user tables.
	Standard Class = iota
	// Catalog orders the catalog table, whose rows are delimiter-separated
	// segments.
	Catalog
	// Raw compares every field as an independent byte range and knows no
	// sentinels. It backs membership filter key derivation.
	Raw
)

var classNames = []string{
	Standard: "standard",
	Catalog:  "catalog",
	Raw:      "raw",
}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass is the inverse of Class.String, case-insensitive.
func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if strings.EqualFold(name, s) {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown comparator class %q", common.MalformedInputError, s)
}
