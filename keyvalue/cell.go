package keyvalue

import (
	"fmt"

	"github.com/mantoudev/hbase/common"
)

// Cell is what the comparators need from a record: its flat key and its
// sequence number. *KeyValue, *KeyOnlyKeyValue and Key implement it.
type Cell interface {
	Key() Key
	SeqNum() SeqNum
}

// ValueCarrier is implemented by cells that hold a value region.
type ValueCarrier interface {
	Cell
	Value() []byte
	ValueLength() int
}

// ValueOf returns the value of c, failing for cells that hold no value
// region such as a key-only view.
func ValueOf(c Cell) ([]byte, error) {
	vc, ok := c.(ValueCarrier)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no value", common.UnsupportedCapabilityError, c)
	}
	return vc.Value(), nil
}

// ValueLengthOf is ValueOf for the length only.
func ValueLengthOf(c Cell) (int, error) {
	vc, ok := c.(ValueCarrier)
	if !ok {
		return 0, fmt.Errorf("%w: %T has no value", common.UnsupportedCapabilityError, c)
	}
	return vc.ValueLength(), nil
}

var (
	_ ValueCarrier = (*KeyValue)(nil)
	_ Cell         = (*KeyOnlyKeyValue)(nil)
	_ Cell         = Key(nil)
)
