package form

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Status messages shown after a submission attempt.
const (
	MsgSuccessFallback = "Registration successful! Your account has been created."
	MsgTimeout         = "Request timeout. Please try again."
	MsgInvalidData     = "Invalid data submitted. Please check your information."
	MsgServerError     = "Server error. Please try again later."
	MsgFailed          = "Registration failed. Please try again."
	MsgNetwork         = "Network error. Please check your connection and try again."
)

type messageRule struct {
	match   func(err error) bool
	message func(err error) string
}

func fixed(msg string) func(error) string {
	return func(error) string { return msg }
}

// failureMessages is evaluated top-down; the first match wins.
var failureMessages = []messageRule{
	{match: timedOut, message: fixed(MsgTimeout)},
	{match: func(err error) bool {
		se, ok := statusError(err)
		return ok && se.Message != ""
	}, message: func(err error) string {
		se, _ := statusError(err)
		return se.Message
	}},
	{match: statusIs(func(code int) bool { return code == http.StatusBadRequest }), message: fixed(MsgInvalidData)},
	{match: statusIs(func(code int) bool { return code >= http.StatusInternalServerError }), message: fixed(MsgServerError)},
	{match: statusIs(func(int) bool { return true }), message: fixed(MsgFailed)},
}

// FailureMessage turns a failed submission into the status line shown to the user.
func FailureMessage(err error) string {
	for _, rule := range failureMessages {
		if rule.match(err) {
			return rule.message(err)
		}
	}
	return MsgNetwork
}

func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusError(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}

func statusIs(pred func(code int) bool) func(error) bool {
	return func(err error) bool {
		se, ok := statusError(err)
		return ok && pred(se.StatusCode)
	}
}
