package domain

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInternal      = errors.New("internal error")

	ErrUserNotFound    = wrapNotFound("user not found")
	ErrProfileNotFound = wrapNotFound("profile not found")

	ErrMissingSubject = errors.New("missing user id")
	ErrMissingEmail   = errors.New("email not found in token")
)

// notFoundError keeps specific not-found sentinels matchable as ErrNotFound
type notFoundError struct {
	msg string
}

func wrapNotFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string {
	return e.msg
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// categories are the sentinels services wrap as "%w: detail"
var categories = []error{ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrAlreadyExists, ErrInternal}

// Message returns err's text without its leading category, suitable for a
// response detail.
func Message(err error) string {
	msg := err.Error()
	for _, category := range categories {
		if rest, ok := strings.CutPrefix(msg, category.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
