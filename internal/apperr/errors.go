package apperr

import "errors"

var (
	ErrMissingFile      = errors.New("missing file")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrDegenerateSample = errors.New("degenerate sample")
	ErrExternalProcess  = errors.New("external process failure")
	ErrValidation       = errors.New("validation failed")
)

// Error attaches one of the package kinds to a message and an optional cause.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func NewValidation(msg string) *Error {
	return New(ErrValidation, msg)
}

func NewMissingFile(path string, err error) *Error {
	return Wrap(ErrMissingFile, "missing file "+path, err)
}

func NewMalformed(msg string, err error) *Error {
	return Wrap(ErrMalformedRecord, msg, err)
}
