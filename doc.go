// Package rowlift reconstructs dynamically-typed row values from a compact,
// schema-driven packed row format used by vectorized data-processing engines.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	rowlift/         Root package with the Region byte-view interface
//	├── schema/      Type descriptors: the closed variant set and its queries
//	├── value/       Dynamic value runtime: tuples, lists, dicts, None
//	├── materializer/ Schema-driven row walker, size prober, batch cursor
//	├── kvjson/      Typed-dictionary payload decoding
//	├── opaque/      Pluggable deserializer for opaque serialized objects
//	└── errors/      Structured error types for debugging
//
// # Row Layout
//
// A row of declared type T occupies a contiguous byte region split, in order,
// into three parts:
//
//	┌────────────────┬──────────────────────┬───────────────────────────┐
//	│ null bitmap    │ fixed region         │ varlen region             │
//	│ ⌈K/64⌉ words   │ one word per leaf    │ total-length word + data  │
//	└────────────────┴──────────────────────┴───────────────────────────┘
//
// K is the number of optional leaves of T under a depth-first left-to-right
// traversal; bit k set means the k-th optional leaf is null. Fixed slots hold
// either the value itself (bool, i64, f64) or a packed (offset, length)
// descriptor pointing into the varlen region. Offsets are origined at the
// slot holding the descriptor, never at the row start.
//
// # Quick Start
//
// Materialize one row:
//
//	typ, err := schema.Parse("(i64,f64,bool)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := materializer.New()
//	v, next, ok := m.FromSerializedMemory(rowlift.ByteRegion(buf), 0, int64(len(buf)), typ)
//	if ok {
//	    fmt.Println(v, next)
//	}
//
// Iterate a batch:
//
//	cur := m.Rows(rowlift.ByteRegion(buf), typ)
//	for cur.Next() {
//	    handle(cur.Value())
//	}
//	if err := cur.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Materializer is safe for concurrent use as long as callers supply disjoint
// regions or synchronize externally; materialization never mutates the input
// region and never retains it past the call. Cursor is NOT thread-safe and
// should be used by a single goroutine.
//
// # Ownership
//
// All produced values are exclusively owned by the caller. The None sentinel
// is a shared reference-counted singleton; every production bumps its count,
// and value.ReleaseTree drops the counts held by a value tree.
package rowlift
