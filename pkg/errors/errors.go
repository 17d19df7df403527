package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by where it came from and how it should be shown
type Kind int

const (
	KindUnknown Kind = iota
	// KindNetwork means no response was received
	KindNetwork
	// KindValidation is a 4xx reported by the server
	KindValidation
	KindUnauthorized
	KindNotFound
	// KindServer is a 5xx reported by the server
	KindServer
	// KindPrecondition is a client-side check that failed before any request
	KindPrecondition
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindPrecondition:
		return "precondition"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// GenericMessage is shown when neither the server nor the client supplied one
const GenericMessage = "Something went wrong. Please try again."

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func Network(err error) *AppError {
	return &AppError{
		Kind: KindNetwork,
		Err:  err,
	}
}

func Precondition(message string) *AppError {
	return &AppError{
		Kind:    KindPrecondition,
		Message: message,
	}
}

func Cancelled(message string) *AppError {
	return &AppError{
		Kind:    KindCancelled,
		Message: message,
	}
}

// FromStatus builds the error for a non-2xx response. message is whatever the
// server put in its payload and may be empty.
func FromStatus(status int, message string) *AppError {
	kind := KindValidation
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 500:
		kind = KindServer
	case status < 400:
		kind = KindUnknown
	}
	return &AppError{
		Kind:    kind,
		Status:  status,
		Message: message,
	}
}

// KindOf reports the kind of the first AppError in err's chain
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text to put in front of a user: the server or
// precondition message when there is one, the generic fallback otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericMessage
}

// As is re-exported so callers importing this package need not alias the stdlib one
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func New(text string) error {
	return stderrors.New(text)
}
