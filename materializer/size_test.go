package materializer

import (
	"testing"

	"github.com/rowlift/rowlift/schema"
)

func TestRowSizeAgreesWithLayout(t *testing.T) {
	tests := []struct {
		name string
		sig  string
		row  []byte
	}{
		{"scalar tuple", "(i64,f64,bool)", scalarTupleRow()},
		{"string and optional", "(str,opt(i64))", stringOptRow()},
		{"string list", "[str]", stringListRow()},
		{"nested tuple", "((i64,i64),i64)", nestedTupleRow()},
		{"typed dict", "{str:i64}", typedDictRow()},
		{"pyobject", "pyobj", opaqueRow([]byte{1, 2, 3, 4, 5})},
		{"bare i64", "i64", words(7)},
		{"top-level string", "str", cat(words(desc(16, 3)), words(3), str0("hi"))},
		{"i64 list", "[i64]", cat(words(desc(16, 32)), words(32), words(3, 10, 20, 30))},
		{"single-valued element list", "[null]", cat(words(5), words(0))},
		{"top-level option", "opt(str)", cat(words(0), words(desc(16, 3)), words(3), str0("hi"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := mustParse(t, tt.sig)
			rowLen := int64(len(tt.row))

			// exact capacity: size equals the row length
			if got := RowSize(region(tt.row), 0, rowLen, typ); got != rowLen {
				t.Errorf("RowSize at exact capacity = %d, want %d", got, rowLen)
			}

			// surplus capacity: same size
			padded := cat(tt.row, words(0, 0))
			if got := RowSize(region(padded), 0, rowLen+16, typ); got != rowLen {
				t.Errorf("RowSize with surplus = %d, want %d", got, rowLen)
			}

			// one byte short: negative sentinel
			if got := RowSize(region(padded), 0, rowLen-1, typ); got >= 0 {
				t.Errorf("RowSize under capacity = %d, want negative", got)
			}
		})
	}
}

func TestRowSizeSingleValued(t *testing.T) {
	for _, sig := range []string{"null", "()", "{}", "[]"} {
		typ := mustParse(t, sig)
		if got := RowSize(region(nil), 0, 64, typ); got != 0 {
			t.Errorf("RowSize(%s) = %d, want 0", sig, got)
		}
	}
}

func TestRowSizeOptionOfSingleValued(t *testing.T) {
	// option of an empty tuple occupies only its bitmap word
	typ := mustParse(t, "opt(())")
	row := words(1)
	if got := RowSize(region(row), 0, 8, typ); got != 8 {
		t.Errorf("RowSize = %d, want 8", got)
	}
	if got := RowSize(region(row), 0, 7, typ); got >= 0 {
		t.Errorf("RowSize under capacity = %d, want negative", got)
	}
}

func TestRowSizeNoBitmapWithoutOptionals(t *testing.T) {
	typ := mustParse(t, "(i64,i64)")
	row := words(1, 2)
	if got := RowSize(region(row), 0, 16, typ); got != 16 {
		t.Errorf("RowSize = %d, want 16 (no bitmap words)", got)
	}
}

func TestRowSizeSixtyFourOptionals(t *testing.T) {
	params := make([]*schema.Type, 64)
	for i := range params {
		params[i] = schema.OptionOf(schema.I64)
	}
	typ := schema.TupleOf(params...)

	slots := make([]uint64, 64)
	row := cat(words(0), words(slots...))

	// exactly one bitmap word plus 64 slots
	if got := RowSize(region(row), 0, int64(len(row)), typ); got != 8+64*8 {
		t.Errorf("RowSize = %d, want %d", got, 8+64*8)
	}
}

func TestRowSizeOptionalSingleValuedLeafConsumesNoSlot(t *testing.T) {
	typ := mustParse(t, "(opt(()),i64)")
	row := cat(words(0), words(9))
	if got := RowSize(region(row), 0, 16, typ); got != 16 {
		t.Errorf("RowSize = %d, want 16", got)
	}
}

func TestRowSizeVarlenDescriptorOverflow(t *testing.T) {
	// descriptor claims 1000 payload bytes
	row := cat(words(desc(16, 1000)), words(1000))
	typ := schema.String
	if got := RowSize(region(row), 0, 64, typ); got >= 0 {
		t.Errorf("RowSize = %d, want negative", got)
	}
}

func TestIsCapacityValid(t *testing.T) {
	row := stringOptRow()
	typ := mustParse(t, "(str,opt(i64))")

	if !IsCapacityValid(region(row), 0, int64(len(row)), typ) {
		t.Error("exact capacity should be valid")
	}
	if IsCapacityValid(region(row), 0, int64(len(row))-1, typ) {
		t.Error("short capacity should be invalid")
	}
	if IsCapacityValid(region(row), 0, 0, typ) {
		t.Error("zero capacity should be invalid")
	}
	if IsCapacityValid(region(row), 0, -5, typ) {
		t.Error("negative capacity should be invalid")
	}
}
