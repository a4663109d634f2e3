package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Conflict            = HttpError{http.StatusConflict, errors.New("conflict")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
)

// Failure categories. Every error returned by the backend client and the services
// built on it wraps exactly one of these.
var (
	Network        = errors.New("network error")
	Parse          = errors.New("unexpected response")
	Authentication = errors.New("authentication failed")
	ForcedLogout   = errors.New("forced logout")
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// Public is an error whose text is meant to be shown to the member as is.
type Public struct {
	Kind error
	Text string
}

func (p Public) Unwrap() error {
	return p.Kind
}

func (p Public) Error() string {
	return p.Text
}

func WithMessage(kind error, text string) error {
	return Public{Kind: kind, Text: text}
}

// Message returns the inline text a screen displays for err
func Message(err error) string {
	if err == nil {
		return ""
	}

	p := Public{}
	if errors.As(err, &p) {
		return p.Text
	}

	switch {
	case errors.Is(err, Network):
		return "Network error. Please check your connection."
	case errors.Is(err, Parse):
		return "Failed to fetch data"
	default:
		return err.Error()
	}
}

// Kind returns the failure category of err, Network when it has none
func Kind(err error) error {
	for _, kind := range []error{ForcedLogout, Authentication, Parse, Network} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return Network
}
