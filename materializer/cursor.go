package materializer

import (
	"github.com/rowlift/rowlift"
	"github.com/rowlift/rowlift/errors"
	"github.com/rowlift/rowlift/schema"
	"github.com/rowlift/rowlift/value"
)

// Cursor iterates the rows of a concatenated batch region. It is not safe
// for concurrent use.
type Cursor struct {
	m      *Materializer
	region rowlift.Region
	typ    *schema.Type
	off    int64
	val    value.Value
	err    error
	done   bool
}

// Rows returns a cursor over the batch of rows stored back to back in
// region, starting at offset 0.
func (m *Materializer) Rows(region rowlift.Region, typ *schema.Type) *Cursor {
	return &Cursor{m: m, region: region, typ: typ}
}

// Next advances to the next row. It returns false when the region is
// exhausted or an error occurred; check Err afterwards.
func (c *Cursor) Next() bool {
	if c.done || c.err != nil {
		return false
	}
	if c.off >= c.region.Len() {
		c.done = true
		return false
	}

	capacity := c.region.Len() - c.off
	size := RowSize(c.region, c.off, capacity, c.typ)
	if size < 0 {
		c.err = errors.New(errors.PhaseSize, errors.KindCapacity).
			Type(c.typ.String()).
			Offset(c.off).
			Detail("row exceeds remaining capacity %d", capacity).
			Build()
		return false
	}

	v, err := c.m.Materialize(c.region, c.off, c.typ)
	if err != nil {
		c.err = err
		return false
	}
	c.val = v

	// a single-valued row type occupies zero bytes; one row is all there is
	if size == 0 {
		c.done = true
	}
	c.off += size
	return true
}

// Value returns the row produced by the last successful Next.
func (c *Cursor) Value() value.Value {
	return c.val
}

// Offset returns the byte offset of the next unread row.
func (c *Cursor) Offset() int64 {
	return c.off
}

// Err returns the error that stopped iteration, if any.
func (c *Cursor) Err() error {
	return c.err
}
