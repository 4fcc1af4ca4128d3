package rowlift

import (
	"encoding/binary"
	"fmt"
)

// ErrOutOfRange is returned by Region reads that fall outside the region.
var ErrOutOfRange = fmt.Errorf("rowlift: read out of range")

// Region is a bounds-checked, read-only view of a packed byte region.
// Multi-byte loads are little-endian. Implementations must never mutate
// the underlying bytes.
type Region interface {
	ReadU8(off int64) (byte, error)
	ReadU64(off int64) (uint64, error)
	Bytes(off, length int64) ([]byte, error)
	Len() int64
}

// ByteRegion adapts a byte slice to the Region interface.
type ByteRegion []byte

func (b ByteRegion) ReadU8(off int64) (byte, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, fmt.Errorf("%w: u8 at %d, len %d", ErrOutOfRange, off, len(b))
	}
	return b[off], nil
}

func (b ByteRegion) ReadU64(off int64) (uint64, error) {
	if off < 0 || off+8 > int64(len(b)) {
		return 0, fmt.Errorf("%w: u64 at %d, len %d", ErrOutOfRange, off, len(b))
	}
	return binary.LittleEndian.Uint64(b[off:]), nil
}

func (b ByteRegion) Bytes(off, length int64) ([]byte, error) {
	if length < 0 || off < 0 || off+length > int64(len(b)) {
		return nil, fmt.Errorf("%w: %d bytes at %d, len %d", ErrOutOfRange, length, off, len(b))
	}
	return b[off : off+length], nil
}

func (b ByteRegion) Len() int64 {
	return int64(len(b))
}
