package describe

import "fmt"

// ErrorKind identifies the taxonomy of fallible conditions a trace, build,
// emit or read call can hit. See spec §7.
type ErrorKind int

const (
	// ErrTooManyNames means the name pool would need a 33rd bit to address
	// its next entry.
	ErrTooManyNames ErrorKind = iota
	ErrTooManyNameLists
	ErrTooManySchemas
	ErrTooManySchemaLists
	ErrTooManyFields
	// ErrTooManyValues means a tuple or struct length handed to the Tracer
	// does not fit in 32 bits. The tape's own byte offsets are not
	// range-checked.
	ErrTooManyValues
	ErrTooManyUnionVariants
	ErrUnpairedMapKey
	ErrUnpairedMapValue
	ErrCustom
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTooManyNames:
		return "too many names"
	case ErrTooManyNameLists:
		return "too many name lists"
	case ErrTooManySchemas:
		return "too many schema nodes"
	case ErrTooManySchemaLists:
		return "too many schema node lists"
	case ErrTooManyFields:
		return "too many fields"
	case ErrTooManyValues:
		return "too many values"
	case ErrTooManyUnionVariants:
		return "too many union variants"
	case ErrUnpairedMapKey:
		return "map key without a matching value"
	case ErrUnpairedMapValue:
		return "map value without a preceding key"
	case ErrCustom:
		return "custom"
	default:
		return "unknown error"
	}
}

// SerError is the error type this package's own checks return from trace,
// build, emit and read calls; any error aborts the call, leaving no partial
// Schema or Value behind. An error returned by a Marshaler, Serializer,
// Deserializer or Visitor is passed back to the caller as is, not wrapped
// in a SerError.
type SerError struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *SerError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("describe: %s: %s", e.Kind, e.msg)
	}
	return fmt.Sprintf("describe: %s", e.Kind)
}

// Unwrap exposes any error a Custom SerError wraps, so callers can use
// errors.Is/errors.As the normal Go way.
func (e *SerError) Unwrap() error { return e.err }

func newError(kind ErrorKind) *SerError {
	return &SerError{Kind: kind}
}

// Custom builds a Custom-kind SerError from a formatted message; unlike
// WrapCustom it carries no underlying error for errors.Is/As.
func Custom(format string, args ...any) *SerError {
	return &SerError{Kind: ErrCustom, msg: fmt.Sprintf(format, args...)}
}

// WrapCustom wraps err as a Custom SerError, preserving it for errors.Is/As.
func WrapCustom(err error) *SerError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SerError); ok {
		return se
	}
	return &SerError{Kind: ErrCustom, msg: err.Error(), err: err}
}
