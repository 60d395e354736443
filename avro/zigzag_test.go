package avro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZigzag_RoundTrip(t *testing.T) {
	values := []int64{
		0, -1, 1, -2, 2, 63, -64, 64, -65,
		150, -150, math.MaxInt32, math.MinInt32,
		math.MaxInt64, math.MinInt64,
	}
	for _, v := range values {
		assert.Equal(t, v, DecodeZigzag64(EncodeZigzag64(v)), "value %d", v)
	}
}

func TestZigzag_KnownMappings(t *testing.T) {
	tests := []struct {
		signed  int64
		encoded uint64
	}{
		{signed: 0, encoded: 0},
		{signed: -1, encoded: 1},
		{signed: 1, encoded: 2},
		{signed: -2, encoded: 3},
		{signed: 2, encoded: 4},
		{signed: 75, encoded: 150},
		{signed: math.MaxInt64, encoded: math.MaxUint64 - 1},
		{signed: math.MinInt64, encoded: math.MaxUint64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.encoded, EncodeZigzag64(tt.signed))
		assert.Equal(t, tt.signed, DecodeZigzag64(tt.encoded))
	}
}

func TestEncodeVarint(t *testing.T) {
	tests := []struct {
		value uint64
		bytes []byte
	}{
		{value: 0, bytes: []byte{0x00}},
		{value: 1, bytes: []byte{0x01}},
		{value: 127, bytes: []byte{0x7f}},
		{value: 128, bytes: []byte{0x80, 0x01}},
		{value: 150, bytes: []byte{0x96, 0x01}},
		{value: 300, bytes: []byte{0xac, 0x02}},
		{value: math.MaxUint64, bytes: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bytes, EncodeVarint(nil, tt.value))
	}
}

// encodeLong is a test helper appending the zigzag varint form of n.
func encodeLong(buf []byte, n int64) []byte {
	return EncodeVarint(buf, EncodeZigzag64(n))
}
