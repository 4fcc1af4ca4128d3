package materializer

import "github.com/rowlift/rowlift"

// VarlenRef is a decoded packed varlen descriptor: a byte offset relative
// to the slot holding the descriptor, and a payload length in bytes. For
// strings the length includes the NUL terminator.
type VarlenRef struct {
	Offset uint32
	Length uint32
}

// DecodeVarlen unpacks a 64-bit packed descriptor: offset in the low 32
// bits, length in the high 32.
func DecodeVarlen(word uint64) VarlenRef {
	return VarlenRef{
		Offset: uint32(word),
		Length: uint32(word >> 32),
	}
}

// readVarlen loads and unpacks the descriptor stored in the slot at off.
func readVarlen(region rowlift.Region, off int64) (VarlenRef, error) {
	word, err := region.ReadU64(off)
	if err != nil {
		return VarlenRef{}, err
	}
	return DecodeVarlen(word), nil
}
