// Package materializer reconstructs dynamically-typed values from packed
// row regions. The walk is driven entirely by the schema: a Materializer
// holds no per-row state and is safe for concurrent use on disjoint regions.
package materializer

import (
	"math"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rowlift/rowlift"
	"github.com/rowlift/rowlift/errors"
	"github.com/rowlift/rowlift/kvjson"
	"github.com/rowlift/rowlift/opaque"
	"github.com/rowlift/rowlift/schema"
	"github.com/rowlift/rowlift/value"
)

// Size limits guarding against corrupt count and length words.
const (
	MaxStringSize = 1 << 30 // bytes
	MaxListLength = 1 << 28 // elements
)

// Materializer produces value trees from serialized rows.
type Materializer struct {
	opaque opaque.Decoder
}

// New returns a materializer without an opaque-object decoder; pyobject
// leaves degrade to None with a debug log.
func New() *Materializer {
	return &Materializer{}
}

// NewWithOpaque returns a materializer that hands pyobject payloads to d.
func NewWithOpaque(d opaque.Decoder) *Materializer {
	return &Materializer{opaque: d}
}

// Materialize builds the value of type typ from the row region starting at
// off. The returned value is exclusively owned by the caller; the region is
// never mutated or retained.
func (m *Materializer) Materialize(region rowlift.Region, off int64, typ *schema.Type) (value.Value, error) {
	return m.materialize(region, off, typ, nil, 0)
}

// FromSerializedMemory is the row entry point: it materializes one row and
// reports the offset of the next. The boolean is true iff a non-None
// top-level value was produced. A row that fails the size probe is not
// materialized; the offset comes back unchanged.
func (m *Materializer) FromSerializedMemory(region rowlift.Region, off, capacity int64, typ *schema.Type) (value.Value, int64, bool) {
	size := RowSize(region, off, capacity, typ)
	if size < 0 {
		Logger().Debug("row exceeds capacity, skipping materialization",
			zap.Int64("capacity", capacity), zap.String("type", typ.String()))
		return value.None.Retain(), off, false
	}

	v, err := m.Materialize(region, off, typ)
	if err != nil {
		Logger().Debug("materialization failed, substituting None",
			zap.String("type", typ.String()), zap.Error(err))
		return value.None.Retain(), off + size, false
	}
	return v, off + size, !value.IsNone(v)
}

// materialize dispatches on the variant. bm and bitIndex carry the null
// bitmap inherited from an enclosing tuple walk; both are nil/zero when the
// row's outermost type is materialized directly.
func (m *Materializer) materialize(region rowlift.Region, off int64, typ *schema.Type, bm *BitmapReader, bitIndex int) (value.Value, error) {
	switch typ.Kind() {
	case schema.KindBool:
		b, err := region.ReadU8(off)
		if err != nil {
			return nil, err
		}
		return b != 0, nil

	case schema.KindI64:
		w, err := region.ReadU64(off)
		if err != nil {
			return nil, err
		}
		return int64(w), nil

	case schema.KindF64:
		w, err := region.ReadU64(off)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(w), nil

	case schema.KindString:
		return m.materializeString(region, off)

	case schema.KindNull:
		return value.None.Retain(), nil

	case schema.KindEmptyTuple:
		return value.NewTuple(0), nil

	case schema.KindEmptyDict:
		return value.NewDict(), nil

	case schema.KindEmptyList:
		return value.NewList(0), nil

	case schema.KindTuple:
		return m.materializeTuple(region, off, typ)

	case schema.KindDict, schema.KindGenericDict:
		return m.materializeDict(region, off)

	case schema.KindList:
		return m.materializeList(region, off, typ)

	case schema.KindOption:
		// When the outermost type is itself optional the first word at off
		// IS the bitmap and the value follows it.
		if bm == nil {
			bm = NewBitmapReader(region, off)
			bitIndex = 0
			off += 8
		}
		null, err := bm.IsNull(bitIndex)
		if err != nil {
			return nil, err
		}
		if null {
			return value.None.Retain(), nil
		}
		return m.materialize(region, off, typ.Inner(), nil, 0)

	case schema.KindPyObject:
		return m.materializeOpaque(region, off)

	default:
		Logger().Debug("unknown type encountered, substituting None",
			zap.String("type", typ.String()))
		return value.None.Retain(), nil
	}
}

func (m *Materializer) materializeString(region rowlift.Region, off int64) (value.Value, error) {
	vr, err := readVarlen(region, off)
	if err != nil {
		return nil, err
	}
	if vr.Length > MaxStringSize {
		return nil, errors.New(errors.PhaseMaterialize, errors.KindOutOfBounds).
			Offset(off).
			Detail("string length %d exceeds maximum %d", vr.Length, MaxStringSize).
			Build()
	}
	// the stored length includes the NUL terminator
	if vr.Length <= 1 {
		return "", nil
	}
	data, err := region.Bytes(off+int64(vr.Offset), int64(vr.Length)-1)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.InvalidUTF8(errors.PhaseMaterialize, nil, data)
	}
	return string(data), nil
}

func (m *Materializer) materializeDict(region rowlift.Region, off int64) (value.Value, error) {
	vr, err := readVarlen(region, off)
	if err != nil {
		return nil, err
	}
	data, err := region.Bytes(off+int64(vr.Offset), int64(vr.Length))
	if err != nil {
		return nil, err
	}
	return kvjson.DecodeDict(data)
}

func (m *Materializer) materializeOpaque(region rowlift.Region, off int64) (value.Value, error) {
	vr, err := readVarlen(region, off)
	if err != nil {
		return nil, err
	}
	data, err := region.Bytes(off+int64(vr.Offset), int64(vr.Length))
	if err != nil {
		return nil, err
	}
	if m.opaque == nil {
		Logger().Debug("no opaque decoder configured, substituting None")
		return value.None.Retain(), nil
	}
	v, err := m.opaque.Decode(data)
	if err != nil {
		return nil, errors.New(errors.PhaseMaterialize, errors.KindOpaque).
			Offset(off).
			Cause(err).
			Detail("opaque decode failed").
			Build()
	}
	return v, nil
}

// materializeTuple walks the leaf paths in schema order, maintaining a
// stack of partially built tuples, a cursor into the fixed region, and the
// shared bitmap index. The bitmap prefix precedes the fixed region and is
// handed unchanged into every optional leaf.
func (m *Materializer) materializeTuple(region rowlift.Region, off int64, typ *schema.Type) (value.Value, error) {
	bm := NewBitmapReader(region, off)
	fixedBase := off + 8*bitmapWords(typ.NumOptionalLeaves())

	root := value.NewTuple(len(typ.Params()))
	cur := root
	var stack []*value.Tuple

	bufIdx := int64(0)
	bitIndex := 0
	var prev []int

	for _, path := range typ.LeafPaths() {
		// first index at which the new path diverges from the previous one
		div := -1
		if len(prev) == 0 {
			div = 0
		} else {
			n := len(prev)
			if len(path) < n {
				n = len(path)
			}
			for i := 0; i < n; i++ {
				if prev[i] != path[i] {
					div = i
					break
				}
			}
		}
		if div != -1 {
			for len(stack) > div {
				cur = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
			for i := div; i < len(path)-1; i++ {
				sub := typ.TypeAt(path[:i+1])
				child := value.NewTuple(len(sub.Params()))
				cur.Set(path[i], child)
				stack = append(stack, cur)
				cur = child
			}
		}

		leafType := typ.TypeAt(path)
		elem, err := m.materialize(region, fixedBase+bufIdx, leafType, bm, bitIndex)
		if leafType.IsOption() {
			bitIndex++
		}
		if err != nil {
			value.ReleaseTree(root)
			return nil, err
		}
		cur.Set(path[len(path)-1], elem)
		if !leafType.Unwrap().IsSingleValued() {
			bufIdx += 8
		}
		prev = path
	}

	return root, nil
}

// materializeList handles the three list encodings: a bare count for
// single-valued element types, the string-list sub-format, and counted
// 8-byte slots for everything else.
func (m *Materializer) materializeList(region rowlift.Region, off int64, typ *schema.Type) (value.Value, error) {
	elem := typ.Elem()

	if elem.IsSingleValued() {
		w, err := region.ReadU64(off)
		if err != nil {
			return nil, err
		}
		return m.repeatedSingleValued(elem, int64(w), typ)
	}

	vr, err := readVarlen(region, off)
	if err != nil {
		return nil, err
	}
	base := off + int64(vr.Offset)
	w, err := region.ReadU64(base)
	if err != nil {
		return nil, err
	}
	n := int64(w)
	if n < 0 || n > MaxListLength {
		return nil, errors.New(errors.PhaseMaterialize, errors.KindOutOfBounds).
			Offset(off).
			Detail("list length %d exceeds maximum %d", n, MaxListLength).
			Build()
	}

	list := value.NewList(int(n))
	slot := base + 8
	for i := int64(0); i < n; i++ {
		var elemVal value.Value
		var err error

		switch elem.Kind() {
		case schema.KindI64:
			var w uint64
			w, err = region.ReadU64(slot)
			elemVal = int64(w)

		case schema.KindF64:
			var w uint64
			w, err = region.ReadU64(slot)
			elemVal = math.Float64frombits(w)

		case schema.KindBool:
			// bools are stored as full i64 slots
			var w uint64
			w, err = region.ReadU64(slot)
			elemVal = w != 0

		case schema.KindString:
			elemVal, err = m.listString(region, slot, vr, n, i)

		case schema.KindTuple:
			elemVal, err = m.materializeTuple(region, slot, elem)

		case schema.KindDict, schema.KindGenericDict:
			elemVal, err = m.materializeDict(region, slot)

		default:
			value.ReleaseTree(list)
			return nil, errors.InvalidList(errors.PhaseMaterialize, typ.String())
		}

		if err != nil {
			value.ReleaseTree(list)
			return nil, err
		}
		list.Set(int(i), elemVal)
		slot += 8
	}
	return list, nil
}

// listString decodes element i of a string list. The varlen region holds a
// count word, n offset words, then the NUL-terminated strings; offsets are
// origined at their own offset slot, one word past where the previous one
// is origined, hence the 8-byte adjustment in the length arithmetic.
func (m *Materializer) listString(region rowlift.Region, slot int64, vr VarlenRef, n, i int64) (value.Value, error) {
	w, err := region.ReadU64(slot)
	if err != nil {
		return nil, err
	}
	curOff := int64(w)

	var curLen int64
	if i < n-1 {
		next, err := region.ReadU64(slot + 8)
		if err != nil {
			return nil, err
		}
		curLen = int64(next) - (curOff - 8)
	} else {
		curLen = int64(vr.Length) - n*8 - curOff
	}
	if curLen < 1 {
		return nil, errors.New(errors.PhaseMaterialize, errors.KindOutOfBounds).
			Offset(slot).
			Detail("string list element %d has length %d", i, curLen).
			Build()
	}

	data, err := region.Bytes(slot+curOff, curLen-1)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.InvalidUTF8(errors.PhaseMaterialize, nil, data)
	}
	return string(data), nil
}

// repeatedSingleValued produces n copies of the unique inhabitant of a
// single-valued element type.
func (m *Materializer) repeatedSingleValued(elem *schema.Type, n int64, listType *schema.Type) (value.Value, error) {
	if n < 0 || n > MaxListLength {
		return nil, errors.New(errors.PhaseMaterialize, errors.KindOutOfBounds).
			Detail("list length %d exceeds maximum %d", n, MaxListLength).
			Build()
	}
	list := value.NewList(int(n))
	for i := int64(0); i < n; i++ {
		switch elem.Kind() {
		case schema.KindNull:
			list.Set(int(i), value.None.Retain())
		case schema.KindEmptyTuple:
			list.Set(int(i), value.NewTuple(0))
		case schema.KindEmptyDict:
			list.Set(int(i), value.NewDict())
		case schema.KindEmptyList:
			list.Set(int(i), value.NewList(0))
		default:
			value.ReleaseTree(list)
			return nil, errors.InvalidList(errors.PhaseMaterialize, listType.String())
		}
	}
	return list, nil
}
