package keyvalue

import "fmt"

// KeyOnlyKeyValue is a view over a bare flat key. It has no value region, so
// it does not implement ValueCarrier, and its tags length and sequence number
// are always zero.
//
// The view can be rebound with SetKey, which lets index traversal reuse one
// instance across many comparisons. A bound view must not be shared between
// goroutines while it is being rebound.
type KeyOnlyKeyValue struct {
	buf    []byte
	offset int
	length int
}

// NewKeyOnly binds a view to buf[offset:offset+length].
func NewKeyOnly(buf []byte, offset, length int) *KeyOnlyKeyValue {
	k := &KeyOnlyKeyValue{}
	k.SetKey(buf, offset, length)
	return k
}

// SetKey rebinds the view without allocating.
func (k *KeyOnlyKeyValue) SetKey(buf []byte, offset, length int) {
	k.buf = buf
	k.offset = offset
	k.length = length
}

// Key returns the bound key without copying.
func (k *KeyOnlyKeyValue) Key() Key {
	end := k.offset + k.length
	return Key(k.buf[k.offset:end:end])
}

func (k *KeyOnlyKeyValue) Buffer() []byte { return k.buf }
func (k *KeyOnlyKeyValue) KeyOffset() int { return k.offset }
func (k *KeyOnlyKeyValue) KeyLength() int { return k.length }

func (k *KeyOnlyKeyValue) RowOffset() int { return k.offset + RowLengthSize }
func (k *KeyOnlyKeyValue) RowLength() int { return k.Key().RowLength() }
func (k *KeyOnlyKeyValue) Row() []byte    { return k.Key().Row() }

func (k *KeyOnlyKeyValue) FamilyOffset() int { return k.offset + k.Key().FamilyOffset() }
func (k *KeyOnlyKeyValue) FamilyLength() int { return k.Key().FamilyLength() }
func (k *KeyOnlyKeyValue) Family() []byte    { return k.Key().Family() }

func (k *KeyOnlyKeyValue) QualifierOffset() int { return k.offset + k.Key().QualifierOffset() }
func (k *KeyOnlyKeyValue) QualifierLength() int { return k.Key().QualifierLength() }
func (k *KeyOnlyKeyValue) Qualifier() []byte    { return k.Key().Qualifier() }

func (k *KeyOnlyKeyValue) TimestampOffset() int { return k.offset + k.length - TimestampTypeSize }
func (k *KeyOnlyKeyValue) Timestamp() int64     { return k.Key().Timestamp() }
func (k *KeyOnlyKeyValue) TypeByte() byte       { return k.Key().TypeByte() }
func (k *KeyOnlyKeyValue) Type() Type           { return k.Key().Type() }

func (k *KeyOnlyKeyValue) TagsLength() int { return 0 }
func (k *KeyOnlyKeyValue) SeqNum() SeqNum  { return 0 }

func (k *KeyOnlyKeyValue) String() string {
	if k.buf == nil {
		return "empty"
	}
	return fmt.Sprintf("%s/vlen=0/mvcc=0", k.Key())
}
