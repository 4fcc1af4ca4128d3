// Package value provides the dynamic value runtime that materialized rows
// are built from: positional tuples and lists, insertion-ordered dicts,
// Go scalars (bool, int64, float64, string), and the refcounted None
// sentinel shared by every null production.
package value

import "sync/atomic"

// Value is a dynamically-typed value: bool, int64, float64, string,
// *Tuple, *List, *Dict, the None sentinel, or any opaque value produced
// by an opaque-object decoder.
type Value = any

// NoneValue is the type of the None singleton.
type NoneValue struct {
	refs atomic.Int64
}

// None is the shared null sentinel. Producers bump its reference count via
// Retain; the singleton pointer itself is stable for the process lifetime.
var None = &NoneValue{}

// Retain bumps the reference count and returns the sentinel for chaining.
func (n *NoneValue) Retain() *NoneValue {
	n.refs.Add(1)
	return n
}

// Release drops one reference.
func (n *NoneValue) Release() {
	n.refs.Add(-1)
}

// Refs returns the current reference count.
func (n *NoneValue) Refs() int64 {
	return n.refs.Load()
}

// IsNone reports whether v is the null sentinel.
func IsNone(v Value) bool {
	return v == None
}

// Tuple is a fixed-arity value with positional slots.
type Tuple struct {
	slots []Value
}

// NewTuple allocates a tuple with n unset slots.
func NewTuple(n int) *Tuple {
	return &Tuple{slots: make([]Value, n)}
}

// TupleOf builds a tuple from the given values.
func TupleOf(vs ...Value) *Tuple {
	return &Tuple{slots: vs}
}

func (t *Tuple) Len() int           { return len(t.slots) }
func (t *Tuple) Get(i int) Value    { return t.slots[i] }
func (t *Tuple) Set(i int, v Value) { t.slots[i] = v }

// List is a variable-length value with positional slots.
type List struct {
	elems []Value
}

// NewList allocates a list with n unset slots.
func NewList(n int) *List {
	return &List{elems: make([]Value, n)}
}

// ListOf builds a list from the given values.
func ListOf(vs ...Value) *List {
	return &List{elems: vs}
}

func (l *List) Len() int           { return len(l.elems) }
func (l *List) Get(i int) Value    { return l.elems[i] }
func (l *List) Set(i int, v Value) { l.elems[i] = v }

// Dict is an insertion-ordered key/value mapping. Keys are compared
// structurally, so bool, int64, float64, string and None all work as keys.
type Dict struct {
	keys []Value
	vals []Value
}

// NewDict allocates an empty dict.
func NewDict() *Dict {
	return &Dict{}
}

func (d *Dict) Len() int { return len(d.keys) }

// Set inserts or replaces the entry for key, preserving first-insertion
// order on replacement.
func (d *Dict) Set(key, val Value) {
	for i, k := range d.keys {
		if Equal(k, key) {
			d.vals[i] = val
			return
		}
	}
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, val)
}

// Get returns the value for key and whether it was present.
func (d *Dict) Get(key Value) (Value, bool) {
	for i, k := range d.keys {
		if Equal(k, key) {
			return d.vals[i], true
		}
	}
	return nil, false
}

// Entry returns the i-th key/value pair in insertion order.
func (d *Dict) Entry(i int) (Value, Value) {
	return d.keys[i], d.vals[i]
}

// Equal compares two values structurally. Tuples and lists compare
// elementwise in order; dicts compare as unordered key/value sets.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *NoneValue:
		return a == b
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !Equal(av.Get(i), bv.Get(i)) {
				return false
			}
		}
		return true
	case *List:
		bv, ok := b.(*List)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !Equal(av.Get(i), bv.Get(i)) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			k, v := av.Entry(i)
			bvVal, found := bv.Get(k)
			if !found || !Equal(v, bvVal) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// ReleaseTree walks a value tree and drops the None references it holds.
// Callers use it to dispose of partially built values after a failure so
// no retained references leak.
func ReleaseTree(v Value) {
	switch tv := v.(type) {
	case *NoneValue:
		tv.Release()
	case *Tuple:
		for i := 0; i < tv.Len(); i++ {
			ReleaseTree(tv.Get(i))
		}
	case *List:
		for i := 0; i < tv.Len(); i++ {
			ReleaseTree(tv.Get(i))
		}
	case *Dict:
		for i := 0; i < tv.Len(); i++ {
			k, val := tv.Entry(i)
			ReleaseTree(k)
			ReleaseTree(val)
		}
	}
}
