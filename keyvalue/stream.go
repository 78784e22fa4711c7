package keyvalue

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/internal/bufferpool"
)

// FrameLengthSize is the width of the big-endian length preceding every
// framed record.
const FrameLengthSize = 4

// FramedLength is the number of bytes Write emits for kv.
func FramedLength(kv *KeyValue, withTags bool) int {
	return FrameLengthSize + serializedLength(kv, withTags)
}

func serializedLength(kv *KeyValue, withTags bool) int {
	if withTags {
		return kv.Length()
	}
	return kv.KeyLength() + kv.ValueLength() + KeyValueInfrastructureSize
}

// Write frames kv onto w as [length:4][record]. Without tags the tags region
// is left out and the length shrinks accordingly. It returns the number of
// bytes written.
func Write(w io.Writer, kv *KeyValue, withTags bool) (int64, error) {
	length := serializedLength(kv, withTags)
	frame := bufferpool.Get(FrameLengthSize + length)
	defer bufferpool.Put(frame)

	frame = binary.BigEndian.AppendUint32(frame, uint32(length))
	frame = append(frame, kv.buf[kv.offset:kv.offset+length]...)
	n, err := w.Write(frame)
	return int64(n), err
}

// WriteEndOfStream writes the zero length that terminates a stream.
func WriteEndOfStream(w io.Writer) error {
	var marker [FrameLengthSize]byte
	_, err := w.Write(marker[:])
	return err
}

// Read reads one framed record from r. It returns io.EOF at the end of the
// stream, which is either a zero length or r ending cleanly before a frame
// starts. A negative length, a frame cut short or a frame that does not hold
// a well-formed record is a StreamCorruptionError.
func Read(r io.Reader) (*KeyValue, error) {
	var hdr [FrameLengthSize]byte
	if n, err := io.ReadFull(r, hdr[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("%w: read %d of %d length bytes", common.StreamCorruptionError, n, FrameLengthSize)
		default:
			return nil, err
		}
	}

	length := int32(binary.BigEndian.Uint32(hdr[:]))
	if length == 0 {
		return nil, io.EOF
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative frame length %d", common.StreamCorruptionError, length)
	}

	// buf grows with the bytes that arrive, never to the declared length
	// up front.
	buf, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, err
	}
	if len(buf) < int(length) {
		return nil, fmt.Errorf("%w: read %d of %d record bytes", common.StreamCorruptionError, len(buf), length)
	}

	kv, err := NewFromBytesLen(buf, 0, int(length))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.StreamCorruptionError, err)
	}
	return kv, nil
}

// StreamWriter frames records onto an underlying writer.
type StreamWriter struct {
	w        io.Writer
	withTags bool
	written  int64
	count    int
}

func NewStreamWriter(w io.Writer, withTags bool) *StreamWriter {
	return &StreamWriter{w: w, withTags: withTags}
}

func (sw *StreamWriter) Write(kv *KeyValue) error {
	n, err := Write(sw.w, kv, sw.withTags)
	sw.written += n
	if err != nil {
		return err
	}
	sw.count++
	return nil
}

// Written is the number of bytes emitted so far.
func (sw *StreamWriter) Written() int64 { return sw.written }

// Count is the number of records written so far.
func (sw *StreamWriter) Count() int { return sw.count }

// Close writes the end-of-stream marker. The underlying writer stays open.
func (sw *StreamWriter) Close() error {
	if err := WriteEndOfStream(sw.w); err != nil {
		return err
	}
	sw.written += FrameLengthSize
	return nil
}

// StreamReader reads framed records until the end of the stream.
type StreamReader struct {
	r    io.Reader
	done bool
}

func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// Next returns the next record or io.EOF once the stream is over. Further
// calls keep returning io.EOF.
func (sr *StreamReader) Next() (*KeyValue, error) {
	if sr.done {
		return nil, io.EOF
	}
	kv, err := Read(sr.r)
	if errors.Is(err, io.EOF) {
		sr.done = true
	}
	return kv, err
}

// ReadAll drains the stream.
func (sr *StreamReader) ReadAll() ([]*KeyValue, error) {
	var out []*KeyValue
	for {
		kv, err := sr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, kv)
	}
}
