package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // wire to model
	PhaseEncode    Phase = "encode"    // model to wire
	PhaseTransport Phase = "transport" // native boundary
	PhaseView      Phase = "view"      // view controllers and emitters
	PhaseConfig    Phase = "config"    // configuration validation
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindFieldMissing   Kind = "field_missing"
	KindFieldUnknown   Kind = "field_unknown"
	KindInvalidJSON    Kind = "invalid_json"
	KindInvalidData    Kind = "invalid_data"
	KindUnexpectedType Kind = "unexpected_type"
	KindNotFound       Kind = "not_found"
	KindUnsupported    Kind = "unsupported"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used for failures raised locally by the
// SDK, as opposed to AdaptyError which carries errors reported by the native side.
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Expected string
	Actual   string
	Detail   string
	Path     []string
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

	if e.Expected != "" || e.Actual != "" {
		b.WriteString(": expected type ")
		b.WriteString(e.Expected)
		b.WriteString(", received type ")
		b.WriteString(e.Actual)
	}

	if e.Detail != "" {
		if e.Expected != "" || e.Actual != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
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

// Code maps the local failure onto the native error code space so callers
// can branch on a single numeric code.
func (e *Error) Code() ErrorCode {
	switch e.Phase {
	case PhaseDecode:
		return CodeDecodingFailed
	case PhaseEncode:
		return CodeEncodingFailed
	case PhaseConfig:
		return CodeWrongParam
	default:
		return CodeUnknown
	}
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Types sets the expected and actual type names
func (b *Builder) Types(expected, actual string) *Builder {
	b.err.Expected = expected
	b.err.Actual = actual
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// FailedToDecode creates a generic decode failure with a detail message
func FailedToDecode(detail string, args ...any) *Error {
	return New(PhaseDecode, KindInvalidData).Detail(detail, args...).Build()
}

// FailedToEncode creates a generic encode failure with a detail message
func FailedToEncode(detail string, args ...any) *Error {
	return New(PhaseEncode, KindInvalidData).Detail(detail, args...).Build()
}

// FieldMissing creates a missing required field error
func FieldMissing(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("missing required property %q", fieldName),
	}
}

// TypeMismatch creates a decode type mismatch error
func TypeMismatch(path []string, expected, actual string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindTypeMismatch,
		Path:     path,
		Expected: expected,
		Actual:   actual,
	}
}

// FieldUnknown creates an encode error for a model key with no field entry
func FieldUnknown(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("failed to find encoder for property %q", fieldName),
	}
}

// InvalidJSON wraps a JSON syntax failure raised while decoding
func InvalidJSON(cause error, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidJSON,
		Detail: detail,
		Cause:  cause,
	}
}

// IsDecodeError reports whether err is (or wraps) a local decode failure.
func IsDecodeError(err error) bool {
	e, ok := As(err)
	return ok && e.Phase == PhaseDecode
}

// IsEncodeError reports whether err is (or wraps) a local encode failure.
func IsEncodeError(err error) bool {
	e, ok := As(err)
	return ok && e.Phase == PhaseEncode
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
