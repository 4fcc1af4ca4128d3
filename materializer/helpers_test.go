package materializer

import (
	"encoding/binary"
	"math"

	"github.com/rowlift/rowlift"
)

// Test rows are assembled by hand in the exact wire layout: bitmap words,
// fixed slots, total-varlen-length word, varlen payload. Varlen descriptor
// offsets are computed relative to the slot that holds them.

func words(vals ...uint64) []byte {
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[8*i:], v)
	}
	return out
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// desc packs a varlen descriptor: offset in the low half, length in the high.
func desc(off, length uint32) uint64 {
	return uint64(length)<<32 | uint64(off)
}

func fbits(f float64) uint64 {
	return math.Float64bits(f)
}

// str0 renders a NUL-terminated string payload.
func str0(s string) []byte {
	return append([]byte(s), 0)
}

func region(b []byte) rowlift.ByteRegion {
	return rowlift.ByteRegion(b)
}

// Prebuilt scenario rows, shared between materializer, size and cursor
// tests so the three read paths are exercised on identical bytes.

// scalarTupleRow serializes (i64,f64,bool) = (42, 3.5, true): three fixed
// slots, no bitmap, no varlen region.
func scalarTupleRow() []byte {
	return words(42, fbits(3.5), 1)
}

// stringOptRow serializes (str,opt(i64)) = ("hi", null).
// Layout: bitmap word (bit 0 set), string slot, i64 slot (ignored),
// varlen total = 3, then "hi\x00". The string payload sits at byte 32 and
// its slot at byte 8, so the slot-relative offset is 24.
func stringOptRow() []byte {
	return cat(
		words(1),             // bitmap
		words(desc(24, 3)),   // string slot
		words(0xdeadbeef),    // i64 slot, ignored because null
		words(3),             // total varlen length
		str0("hi"),           // payload
	)
}

// stringListRow serializes [str] = ["a","bc"].
// Payload at byte 16: count=2, two offset words, then the strings. Each
// offset is origined at its own offset slot: "a"+NUL begins at byte 40
// (slot at 24, offset 16) and "bc"+NUL at byte 42 (slot at 32, offset 10).
// The descriptor length 29 covers the whole list payload.
func stringListRow() []byte {
	return cat(
		words(desc(16, 29)), // list slot
		words(29),           // total varlen length
		words(2, 16, 10),    // count, offsets
		str0("a"),
		str0("bc"),
	)
}

// nestedTupleRow serializes ((i64,i64),i64) = ((1,2),3): leaf order is
// (0,0),(0,1),(1), three fixed slots.
func nestedTupleRow() []byte {
	return words(1, 2, 3)
}

// typedDictRow serializes {str:i64} = {"k":7} as the tagged document
// {"s_k":7} with a NUL terminator, 10 payload bytes at offset 16.
func typedDictRow() []byte {
	return cat(
		words(desc(16, 10)),
		words(10),
		str0(`{"s_k":7}`),
	)
}

// opaqueRow serializes a pyobject whose opaque bytes are b.
func opaqueRow(b []byte) []byte {
	return cat(
		words(desc(16, uint32(len(b)))),
		words(uint64(len(b))),
		b,
	)
}
