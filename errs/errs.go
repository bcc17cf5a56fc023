package errs

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	// Upstream is the zero value: anything we can't classify is a datastore failure.
	Upstream Kind = iota
	MissingField
	InvalidRating
	InappropriateContent
	InvalidBody
	NotFound
	RateLimited
)

func (k Kind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case InvalidRating:
		return "invalid_rating"
	case InappropriateContent:
		return "inappropriate_content"
	case InvalidBody:
		return "invalid_body"
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	default:
		return "upstream"
	}
}

// Status maps a kind to the HTTP status the API answers with.
func (k Kind) Status() int {
	switch k {
	case MissingField, InvalidRating, InappropriateContent, InvalidBody:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal server error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, errs.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrMissingField         = &Error{Kind: MissingField}
	ErrInvalidRating        = &Error{Kind: InvalidRating}
	ErrInappropriateContent = &Error{Kind: InappropriateContent}
	ErrInvalidBody          = &Error{Kind: InvalidBody}
	ErrNotFound             = &Error{Kind: NotFound}
	ErrRateLimited          = &Error{Kind: RateLimited}
)

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying error. An empty message
// surfaces the cause's own text.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to Upstream.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Upstream
}
