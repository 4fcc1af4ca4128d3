// Package opaque defines the deserializer collaborator for opaque
// serialized objects. Rows can carry leaves whose bytes were produced by an
// external pickling mechanism; the materializer hands those bytes to a
// Decoder and treats the result as an opaque value.
package opaque

import "github.com/rowlift/rowlift/value"

// Decoder reconstructs a previously serialized opaque value. The input
// slice aliases the row region and must not be retained past the call.
type Decoder interface {
	Decode(data []byte) (value.Value, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (value.Value, error)

func (f DecoderFunc) Decode(data []byte) (value.Value, error) {
	return f(data)
}
