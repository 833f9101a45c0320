package workflow

import (
	"errors"
	"net/http"
)

// Kind classifies a workflow failure. Handlers translate kinds to HTTP
// status codes in one place instead of matching message strings.
type Kind int

const (
	KindValidation Kind = iota
	KindEntitlement
	KindNotFound
	KindConflict
	KindAuthorization
	KindUpload
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func errValidation(msg string) *Error    { return &Error{Kind: KindValidation, Message: msg} }
func errEntitlement(msg string) *Error   { return &Error{Kind: KindEntitlement, Message: msg} }
func errNotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Message: msg} }
func errConflict(msg string) *Error      { return &Error{Kind: KindConflict, Message: msg} }
func errAuthorization(msg string) *Error { return &Error{Kind: KindAuthorization, Message: msg} }

func errUpload(msg string, cause error) *Error {
	return &Error{Kind: KindUpload, Message: msg, cause: cause}
}

// KindOf reports the kind of err and whether err is a workflow error at all.
func KindOf(err error) (Kind, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind, true
	}
	return 0, false
}

// HTTPStatus maps a workflow error to the status code the API surfaces.
// Anything that is not a workflow error is an internal failure.
func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindEntitlement, KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpload:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Sentinel errors the storage layer reports back to the workflow. The
// storage implementation is the authority for both constraints (unique
// slot index, conditional usage increment).
var (
	ErrNotFound     = errors.New("document not found")
	ErrSlotTaken    = errors.New("appointment slot already taken")
	ErrLimitReached = errors.New("listing limit reached")
)
