package avro

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Decoder reads values in the Avro binary encoding from a stream. The caller
// drives it in schema order; the decoder itself never consults a schema.
//
// A Decoder is bound to one stream at a time via Init and is not safe for
// concurrent use. Decoding errors are fatal: no partial value is retained and
// the stream position is unspecified afterwards.
type Decoder struct {
	in streamReader
}

// NewBinaryDecoder returns a decoder with no stream bound. Call Init before
// decoding.
func NewBinaryDecoder() *Decoder {
	return &Decoder{}
}

// Init binds the decoder to r and resets internal buffering. Ownership of r
// stays with the caller.
func (d *Decoder) Init(r io.Reader) {
	d.in.reset(r)
}

// DecodeNull consumes nothing; the null value occupies no bytes.
func (d *Decoder) DecodeNull() error {
	return nil
}

// DecodeBool reads a single byte: 0 is false, 1 is true.
func (d *Decoder) DecodeBool() (bool, error) {
	v, err := d.in.readByte()
	if err != nil {
		return false, fmt.Errorf("decode bool: %w", err)
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: %d", ErrInvalidBool, v)
}

// DecodeInt reads a zigzag varint and checks that it fits an int32.
func (d *Decoder) DecodeInt() (int32, error) {
	val, err := d.doDecodeLong()
	if err != nil {
		return 0, err
	}
	if val < math.MinInt32 || val > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrIntOutOfRange, val)
	}
	return int32(val), nil
}

// DecodeLong reads a zigzag varint.
func (d *Decoder) DecodeLong() (int64, error) {
	return d.doDecodeLong()
}

// DecodeFloat reads four little-endian bytes as an IEEE-754 single.
func (d *Decoder) DecodeFloat() (float32, error) {
	var b [4]byte
	if err := d.in.readBytes(b[:]); err != nil {
		return 0, fmt.Errorf("decode float: %w", err)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:])), nil
}

// DecodeDouble reads eight little-endian bytes as an IEEE-754 double.
func (d *Decoder) DecodeDouble() (float64, error) {
	var b [8]byte
	if err := d.in.readBytes(b[:]); err != nil {
		return 0, fmt.Errorf("decode double: %w", err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
}

// doDecodeLength reads a length prefix through the int-checked path.
func (d *Decoder) doDecodeLength() (int, error) {
	n, err := d.DecodeInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	return int(n), nil
}

// DecodeString reads a varint length followed by that many bytes of UTF-8.
func (d *Decoder) DecodeString() (string, error) {
	n, err := d.doDecodeLength()
	if err != nil {
		return "", fmt.Errorf("decode string: %w", err)
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := d.in.readBytes(buf); err != nil {
		return "", fmt.Errorf("decode string: %w", err)
	}
	return string(buf), nil
}

// SkipString skips over a string without materializing it.
func (d *Decoder) SkipString() error {
	n, err := d.doDecodeLength()
	if err != nil {
		return fmt.Errorf("skip string: %w", err)
	}
	return d.in.skipBytes(int64(n))
}

// DecodeBytes reads a varint length followed by that many raw bytes.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	n, err := d.doDecodeLength()
	if err != nil {
		return nil, fmt.Errorf("decode bytes: %w", err)
	}
	buf := make([]byte, n)
	if n > 0 {
		if err := d.in.readBytes(buf); err != nil {
			return nil, fmt.Errorf("decode bytes: %w", err)
		}
	}
	return buf, nil
}

// SkipBytes skips over a bytes value without materializing it.
func (d *Decoder) SkipBytes() error {
	n, err := d.doDecodeLength()
	if err != nil {
		return fmt.Errorf("skip bytes: %w", err)
	}
	return d.in.skipBytes(int64(n))
}

// DecodeFixed reads exactly n bytes.
func (d *Decoder) DecodeFixed(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n > 0 {
		if err := d.in.readBytes(buf); err != nil {
			return nil, fmt.Errorf("decode fixed: %w", err)
		}
	}
	return buf, nil
}

// SkipFixed skips exactly n bytes.
func (d *Decoder) SkipFixed(n int) error {
	return d.in.skipBytes(int64(n))
}

// DecodeEnum reads a symbol index.
func (d *Decoder) DecodeEnum() (int64, error) {
	return d.doDecodeLong()
}

// DecodeUnionIndex reads a branch index.
func (d *Decoder) DecodeUnionIndex() (int64, error) {
	return d.doDecodeLong()
}

// ArrayStart begins reading a block-framed array and returns the item count of
// the first block, or 0 for an empty array. A negative block header's byte
// length is consumed and discarded: the items are about to be decoded, not
// skipped.
func (d *Decoder) ArrayStart() (int64, error) {
	return d.doDecodeItemCount()
}

// ArrayNext returns the next block header as decoded, without normalizing the
// negative byte-length-annotated form. Zero means the array has ended.
func (d *Decoder) ArrayNext() (int64, error) {
	return d.doDecodeLong()
}

// SkipArray skips whole blocks while their byte length is known, and returns
// the item count of the first block that must be skipped item by item. Zero
// means the array has ended.
func (d *Decoder) SkipArray() (int64, error) {
	for {
		r, err := d.doDecodeLong()
		if err != nil {
			return 0, fmt.Errorf("skip array: %w", err)
		}
		if r >= 0 {
			return r, nil
		}
		n, err := d.doDecodeLong()
		if err != nil {
			return 0, fmt.Errorf("skip array: %w", err)
		}
		if err := d.in.skipBytes(n); err != nil {
			return 0, fmt.Errorf("skip array: %w", err)
		}
	}
}

// MapStart begins reading a block-framed map; see ArrayStart.
func (d *Decoder) MapStart() (int64, error) {
	return d.doDecodeItemCount()
}

// MapNext returns the item count of the next map block, normalizing the
// negative form. Zero means the map has ended.
func (d *Decoder) MapNext() (int64, error) {
	return d.doDecodeItemCount()
}

// SkipMap skips map blocks; the framing is identical to arrays.
func (d *Decoder) SkipMap() (int64, error) {
	return d.SkipArray()
}

// Drain discards the decoder's buffered lookahead so the underlying reader
// can be handed to another consumer at the decoder's logical position.
func (d *Decoder) Drain() {
	d.in.drain()
}

func (d *Decoder) doDecodeLong() (int64, error) {
	encoded, err := d.in.readVarint()
	if err != nil {
		return 0, fmt.Errorf("decode long: %w", err)
	}
	return DecodeZigzag64(encoded), nil
}

// doDecodeItemCount absorbs one block header. A negative count is followed by
// a byte length, which is read and dropped; the absolute count is returned.
func (d *Decoder) doDecodeItemCount() (int64, error) {
	result, err := d.doDecodeLong()
	if err != nil {
		return 0, err
	}
	if result < 0 {
		if _, err := d.doDecodeLong(); err != nil {
			return 0, err
		}
		return -result, nil
	}
	return result, nil
}
