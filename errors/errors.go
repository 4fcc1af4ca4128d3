package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema      Phase = "schema"      // type descriptor construction and parsing
	PhaseMaterialize Phase = "materialize" // row region to value tree
	PhaseSize        Phase = "size"        // row size probing
	PhaseDict        Phase = "dict"        // typed-dictionary payload decoding
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType      Kind = "unknown_type"
	KindMalformedKey     Kind = "malformed_key"
	KindMalformedPayload Kind = "malformed_payload"
	KindInvalidList      Kind = "invalid_list"
	KindCapacity         Kind = "capacity"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindParse            Kind = "parse"
	KindOpaque           Kind = "opaque"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string // schema type signature
	Detail string
	Path   []string
	Offset int64 // byte offset within the row region; -1 when unknown
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the leaf path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the schema type signature
func (b *Builder) Type(sig string) *Builder {
	b.err.Type = sig
	return b
}

// Offset sets the byte offset within the row region
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownType creates an unknown type tag error
func UnknownType(phase Phase, path []string, sig string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Path:   path,
		Type:   sig,
		Offset: -1,
	}
}

// MalformedKey creates a malformed typed-dict key error
func MalformedKey(phase Phase, path []string, key string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedKey,
		Path:   path,
		Detail: fmt.Sprintf("malformed typed-dict key %q", key),
		Offset: -1,
	}
}

// MalformedPayload creates a malformed typed-dict payload error
func MalformedPayload(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedPayload,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}

// InvalidList creates an unrecognized list shape error
func InvalidList(phase Phase, sig string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidList,
		Type:   sig,
		Detail: "unrecognized list element type",
		Offset: -1,
	}
}

// Capacity creates a capacity overflow error
func Capacity(phase Phase, need, capacity int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("row needs %d bytes, capacity %d", need, capacity),
		Offset: -1,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
		Offset: -1,
	}
}

// Parse creates a signature parse error
func Parse(detail string, pos int) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindParse,
		Detail: fmt.Sprintf("%s at position %d", detail, pos),
		Offset: -1,
	}
}
