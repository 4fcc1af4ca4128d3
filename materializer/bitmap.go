package materializer

import (
	"github.com/rowlift/rowlift"
)

// bitmapWords returns the number of 64-bit bitmap words needed for n
// optional leaves.
func bitmapWords(n int) int64 {
	return (int64(n) + 63) / 64
}

// BitmapReader exposes a row's null bitmap as a bit-indexed view. Bit i set
// means the i-th optional leaf, in schema order, is null.
type BitmapReader struct {
	region rowlift.Region
	base   int64
}

// NewBitmapReader views the bitmap words starting at base.
func NewBitmapReader(region rowlift.Region, base int64) *BitmapReader {
	return &BitmapReader{region: region, base: base}
}

// IsNull reports whether optional leaf i is null. The masked word is tested
// against zero as a whole; truncating it to a narrower integer would lose
// high bits for i >= 8.
func (b *BitmapReader) IsNull(i int) (bool, error) {
	word, err := b.region.ReadU64(b.base + 8*int64(i/64))
	if err != nil {
		return false, err
	}
	return word&(uint64(1)<<(i%64)) != 0, nil
}
