package materializer

import (
	"github.com/rowlift/rowlift"
	"github.com/rowlift/rowlift/schema"
)

// RowSize computes the number of bytes one serialized row of type typ
// occupies starting at off, or -1 if the row would overflow capacity. It
// reads the same layout the materializer reads; agreement between the two
// is a core invariant, so callers can advance a batch cursor by exactly the
// returned size.
func RowSize(region rowlift.Region, off, capacity int64, typ *schema.Type) int64 {
	if typ.IsSingleValued() {
		return 0
	}

	bm := 8 * bitmapWords(typ.NumOptionalLeaves())

	// option of a single-valued type consumes only its bitmap bit
	if typ.IsOption() && typ.Inner().IsSingleValued() {
		if bm > capacity {
			return -1
		}
		return bm
	}

	fixed := int64(8)
	switch {
	case typ.Kind() == schema.KindTuple:
		fixed = tupleFixedSize(region, off, capacity, typ, bm)
		if fixed < 0 {
			return -1
		}

	case typ.Kind() == schema.KindString,
		typ.Kind() == schema.KindDict,
		typ.Kind() == schema.KindGenericDict,
		typ.Kind() == schema.KindList && !typ.Elem().IsSingleValued():
		vr, err := readVarlen(region, off+bm)
		if err != nil {
			return -1
		}
		if int64(vr.Offset)+int64(vr.Length) > capacity {
			return -1
		}
	}

	size := bm + fixed
	if !typ.IsFixedSize() {
		w, err := region.ReadU64(off + size)
		if err != nil {
			return -1
		}
		total := int64(w)
		if total < 0 {
			return -1
		}
		size += 8 + total
	}

	if size > capacity {
		return -1
	}
	return size
}

// tupleFixedSize returns the fixed-region size of a tuple row, validating
// capacity against both the fixed slots and, for varlen tuples, the total
// varlen length word that follows them.
func tupleFixedSize(region rowlift.Region, off, capacity int64, typ *schema.Type, bm int64) int64 {
	num := 8 * fixedSlotCount(typ)
	if num > capacity {
		return -1
	}
	if !typ.IsFixedSize() {
		w, err := region.ReadU64(off + bm + num)
		if err != nil {
			return -1
		}
		if bm+num+int64(w) > capacity {
			return -1
		}
	}
	return num
}

// fixedSlotCount counts the leaves that occupy a fixed-region slot: every
// leaf whose unwrapped type is not single-valued.
func fixedSlotCount(typ *schema.Type) int64 {
	n := int64(0)
	for _, path := range typ.LeafPaths() {
		if !typ.TypeAt(path).Unwrap().IsSingleValued() {
			n++
		}
	}
	return n
}

// IsCapacityValid reports whether one whole row fits within capacity.
func IsCapacityValid(region rowlift.Region, off, capacity int64, typ *schema.Type) bool {
	if capacity <= 0 {
		return false
	}
	size := RowSize(region, off, capacity, typ)
	return size >= 0 && size <= capacity
}
