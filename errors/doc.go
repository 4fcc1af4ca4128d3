// Package errors provides structured error types for the rowlift library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the leaf path within the
// row schema, the schema type signature, the byte offset, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMaterialize, errors.KindInvalidList).
//		Path("2", "0").
//		Type("[{str:i64}]").
//		Detail("unrecognized list element type").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedKey(errors.PhaseDict, path, "x_foo")
//	err := errors.Capacity(errors.PhaseSize, 128, 96)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
