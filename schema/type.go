package schema

import "strings"

// Type is an immutable row type descriptor. Descriptors are either the
// process-wide singletons below or built with TupleOf, ListOf, DictOf and
// OptionOf; they must not be constructed directly.
type Type struct {
	kind   Kind
	elem   *Type   // list element, option inner
	key    *Type   // dict key
	val    *Type   // dict value
	params []*Type // tuple members
}

// Process-wide singletons. Pointer identity is stable for the lifetime of
// the process, so sentinel types compare with ==.
var (
	Bool        = &Type{kind: KindBool}
	I64         = &Type{kind: KindI64}
	F64         = &Type{kind: KindF64}
	String      = &Type{kind: KindString}
	Null        = &Type{kind: KindNull}
	EmptyTuple  = &Type{kind: KindEmptyTuple}
	EmptyDict   = &Type{kind: KindEmptyDict}
	EmptyList   = &Type{kind: KindEmptyList}
	GenericDict = &Type{kind: KindGenericDict}
	PyObject    = &Type{kind: KindPyObject}
)

// TupleOf builds a tuple type. With no members it returns the EmptyTuple
// singleton.
func TupleOf(params ...*Type) *Type {
	if len(params) == 0 {
		return EmptyTuple
	}
	return &Type{kind: KindTuple, params: params}
}

// ListOf builds a list type.
func ListOf(elem *Type) *Type {
	return &Type{kind: KindList, elem: elem}
}

// DictOf builds a typed dictionary type.
func DictOf(key, val *Type) *Type {
	return &Type{kind: KindDict, key: key, val: val}
}

// OptionOf builds an optional type. Wrapping an already-optional type
// returns it unchanged.
func OptionOf(inner *Type) *Type {
	if inner.kind == KindOption {
		return inner
	}
	return &Type{kind: KindOption, elem: inner}
}

// Kind returns the variant tag.
func (t *Type) Kind() Kind { return t.kind }

// IsOption reports whether t is optional.
func (t *Type) IsOption() bool { return t.kind == KindOption }

// Inner returns the wrapped type of an optional, or nil.
func (t *Type) Inner() *Type {
	if t.kind == KindOption {
		return t.elem
	}
	return nil
}

// Unwrap peels an optional wrapper; non-optional types return themselves.
func (t *Type) Unwrap() *Type {
	if t.kind == KindOption {
		return t.elem
	}
	return t
}

// Elem returns the list element type, or nil.
func (t *Type) Elem() *Type {
	if t.kind == KindList {
		return t.elem
	}
	return nil
}

// Params returns the tuple member types. Only tuples have members.
func (t *Type) Params() []*Type {
	return t.params
}

// Key returns the typed-dict key type, or nil.
func (t *Type) Key() *Type { return t.key }

// Value returns the typed-dict value type, or nil.
func (t *Type) Value() *Type { return t.val }

// IsSingleValued reports whether the type's domain has exactly one
// inhabitant and therefore consumes zero bytes in the fixed region.
func (t *Type) IsSingleValued() bool {
	switch t.kind {
	case KindNull, KindEmptyTuple, KindEmptyDict, KindEmptyList:
		return true
	default:
		return false
	}
}

// IsFixedSize reports whether a row of this type has no varlen region:
// scalars, single-valued sentinels, optionals of fixed-size types, and
// tuples whose members are all fixed-size.
func (t *Type) IsFixedSize() bool {
	switch t.kind {
	case KindBool, KindI64, KindF64, KindNull, KindEmptyTuple, KindEmptyDict, KindEmptyList:
		return true
	case KindOption:
		return t.elem.IsFixedSize()
	case KindTuple:
		for _, p := range t.params {
			if !p.IsFixedSize() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// NumOptionalLeaves counts optional nodes at leaf positions of the
// depth-first left-to-right walk. Tuples expand into their members; every
// other node, optionals included, is a leaf.
func (t *Type) NumOptionalLeaves() int {
	switch t.kind {
	case KindOption:
		return 1
	case KindTuple:
		n := 0
		for _, p := range t.params {
			n += p.NumOptionalLeaves()
		}
		return n
	default:
		return 0
	}
}

// LeafPaths returns the ordered multi-indices of every leaf. A non-tuple
// type is itself a single leaf with an empty path. The order is the unique
// depth-first left-to-right traversal that also drives the null bitmap and
// the fixed-region slot layout.
func (t *Type) LeafPaths() [][]int {
	var out [][]int
	var walk func(ty *Type, prefix []int)
	walk = func(ty *Type, prefix []int) {
		if ty.kind == KindTuple {
			for i, p := range ty.params {
				walk(p, append(prefix, i))
			}
			return
		}
		path := make([]int, len(prefix))
		copy(path, prefix)
		out = append(out, path)
	}
	walk(t, nil)
	return out
}

// TypeAt descends a multi-index through nested tuples and returns the type
// at that sub-path, or nil if the path does not resolve.
func (t *Type) TypeAt(path []int) *Type {
	cur := t
	for _, i := range path {
		if cur == nil || cur.kind != KindTuple || i < 0 || i >= len(cur.params) {
			return nil
		}
		cur = cur.params[i]
	}
	return cur
}

// String renders the compact signature syntax accepted by Parse.
func (t *Type) String() string {
	switch t.kind {
	case KindTuple:
		var b strings.Builder
		b.WriteByte('(')
		for i, p := range t.params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.String())
		}
		b.WriteByte(')')
		return b.String()
	case KindList:
		return "[" + t.elem.String() + "]"
	case KindDict:
		return "{" + t.key.String() + ":" + t.val.String() + "}"
	case KindOption:
		return "opt(" + t.elem.String() + ")"
	case KindGenericDict:
		return "dict"
	default:
		return t.kind.String()
	}
}
