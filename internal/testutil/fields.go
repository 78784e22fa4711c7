// Package testutil generates record fields for property tests. It knows
// nothing about the codec so that every package can use it from its own tests.
package testutil

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-faker/faker/v4"
)

// Fields of one record.
type Fields struct {
	Row       []byte
	Family    []byte
	Qualifier []byte
	Timestamp int64
	Type      byte
	Value     []byte
}

// StoredTypes are the type codes a writer may persist.
var StoredTypes = []byte{4, 8, 10, 12, 14}

func (f Fields) String() string {
	return fmt.Sprintf("%q/%q:%q/%d/%d", f.Row, f.Family, f.Qualifier, f.Timestamp, f.Type)
}

type fakeText struct {
	Sentence  string `faker:"sentence"`
	Word      string `faker:"word"`
	Name      string `faker:"first_name"`
	Paragraph string `faker:"paragraph"`
}

// randomText draws faker text from a source seeded by r, so a seeded r
// reproduces the same text. faker keeps its source in a package variable;
// callers must not generate text from parallel tests.
func randomText(r *rand.Rand) fakeText {
	faker.SetRandomSource(faker.NewSafeSource(rand.NewSource(r.Int63())))
	text := fakeText{}
	if err := faker.FakeData(&text); err != nil {
		return fakeText{Sentence: "fallback sentence", Word: "word", Name: "name", Paragraph: "paragraph"}
	}
	return text
}

// RandomQuote returns a random sentence drawn from r.
func RandomQuote(r *rand.Rand) string {
	return randomText(r).Sentence
}

func randomBinary(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		switch r.Intn(4) {
		case 0:
			b[i] = 0x00
		case 1:
			b[i] = 0xff
		default:
			b[i] = byte(r.Intn(256))
		}
	}
	return b
}

func randomTimestamp(r *rand.Rand) int64 {
	switch r.Intn(8) {
	case 0:
		return math.MaxInt64
	case 1:
		return 0
	default:
		return r.Int63n(1 << 20)
	}
}

// RandomFields returns fields with text or binary content.
func RandomFields(r *rand.Rand) Fields {
	text := randomText(r)
	f := Fields{
		Row:       []byte(text.Sentence),
		Family:    []byte(text.Word),
		Qualifier: []byte(text.Name),
		Timestamp: randomTimestamp(r),
		Type:      StoredTypes[r.Intn(len(StoredTypes))],
		Value:     []byte(text.Paragraph),
	}
	if r.Intn(4) == 0 {
		f.Row = randomBinary(r, 1+r.Intn(12))
	}
	if r.Intn(6) == 0 {
		f.Qualifier = nil
	}
	if r.Intn(10) == 0 {
		f.Family = nil
	}
	return f
}

// Near returns fields that share a prefix of the key with f, so that
// comparisons reach the deeper fields.
func Near(r *rand.Rand, f Fields) Fields {
	n := f
	n.Value = []byte(randomText(r).Word)
	switch r.Intn(7) {
	case 0: // same column, other version
		n.Timestamp = randomTimestamp(r)
	case 1: // same version, other type
		n.Type = StoredTypes[r.Intn(len(StoredTypes))]
	case 2: // same row, other qualifier
		n.Qualifier = []byte(randomText(r).Name)
	case 3: // same row, other family
		n.Family = []byte(randomText(r).Word)
	case 4: // row sharing a prefix
		cut := r.Intn(len(f.Row) + 1)
		n.Row = append(append([]byte{}, f.Row[:cut]...), randomBinary(r, 1+r.Intn(4))...)
	case 5: // row extending f's row
		n.Row = append(append([]byte{}, f.Row...), randomBinary(r, 1+r.Intn(3))...)
	default:
		return RandomFields(r)
	}
	return n
}

// FieldSet returns n fields mixing fresh and near-duplicate entries.
func FieldSet(r *rand.Rand, n int) []Fields {
	out := make([]Fields, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 && r.Intn(3) > 0 {
			out = append(out, Near(r, out[r.Intn(len(out))]))
			continue
		}
		out = append(out, RandomFields(r))
	}
	return out
}
