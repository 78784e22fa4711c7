package keyvalue

import (
	"fmt"

	"github.com/mantoudev/hbase/common"
)

// Type is the operation tag of a record. The codes are persisted and must
// never be renumbered.
type Type byte

const (
	TypeMinimum             Type = 0
	TypePut                 Type = 4
	TypeDelete              Type = 8
	TypeDeleteFamilyVersion Type = 10
	TypeDeleteColumn        Type = 12
	TypeDeleteFamily        Type = 14
	// TypeMaximum is a search sentinel and is never stored.
	TypeMaximum Type = 255
)

var typeNames = map[Type]string{
	TypeMinimum:             "Minimum",
	TypePut:                 "Put",
	TypeDelete:              "Delete",
	TypeDeleteFamilyVersion: "DeleteFamilyVersion",
	TypeDeleteColumn:        "DeleteColumn",
	TypeDeleteFamily:        "DeleteFamily",
	TypeMaximum:             "Maximum",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// Valid reports whether t is one of the known codes.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// CodeToType maps a stored type byte back to a Type.
func CodeToType(code byte) (Type, error) {
	t := Type(code)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: unknown type code %d", common.MalformedInputError, code)
	}
	return t, nil
}

// ParseType maps a type name, as produced by String, back to a Type.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown type %q", common.MalformedInputError, name)
}

// IsDelete reports whether code is one of the delete codes.
func IsDelete(code byte) bool {
	return Type(code) >= TypeDelete && Type(code) <= TypeDeleteFamily
}
