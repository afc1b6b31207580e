package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"

	appErrors "github.com/noah-isme/registration-relay/pkg/errors"
)

// UpstreamStatusError reports a non-2xx answer from the webhook.
type UpstreamStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

type failureRule struct {
	name  string
	match func(err error) bool
	to    *appErrors.Error
}

// forwardFailureRules is evaluated top-down; the first match wins.
var forwardFailureRules = []failureRule{
	{name: "timeout", match: isTimeout, to: appErrors.ErrUpstreamTimeout},
	{name: "unreachable", match: isUnreachable, to: appErrors.ErrUpstreamUnreachable},
	{name: "upstream_400", match: upstreamStatus(func(code int) bool { return code == http.StatusBadRequest }), to: appErrors.ErrUpstreamBadRequest},
	{name: "upstream_404", match: upstreamStatus(func(code int) bool { return code == http.StatusNotFound }), to: appErrors.ErrUpstreamNotFound},
	{name: "upstream_5xx", match: upstreamStatus(func(code int) bool { return code >= http.StatusInternalServerError }), to: appErrors.ErrUpstreamServer},
}

// classifyForwardError maps a failed forward to the client-facing error.
func classifyForwardError(err error) *appErrors.Error {
	if err == nil {
		return nil
	}
	for _, rule := range forwardFailureRules {
		if rule.match(err) {
			return appErrors.Wrap(err, rule.to.Code, rule.to.Status, rule.to.Message)
		}
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
		fmt.Sprintf("Registration failed: %s. Please try again.", innerMessage(err)))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func upstreamStatus(pred func(code int) bool) func(error) bool {
	return func(err error) bool {
		var statusErr *UpstreamStatusError
		return errors.As(err, &statusErr) && pred(statusErr.StatusCode)
	}
}

// innerMessage drops the url.Error prefix so the webhook URL never reaches clients.
func innerMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
