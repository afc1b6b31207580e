package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/registration-relay/pkg/errors"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyForwardError(t *testing.T) {
	webhook := "https://hooks.example.test/webhook/secret-id"
	tests := []struct {
		name string
		err  error
		want *appErrors.Error
	}{
		{
			name: "context deadline",
			err:  &url.Error{Op: "Post", URL: webhook, Err: context.DeadlineExceeded},
			want: appErrors.ErrUpstreamTimeout,
		},
		{
			name: "net timeout",
			err:  &url.Error{Op: "Post", URL: webhook, Err: timeoutErr{}},
			want: appErrors.ErrUpstreamTimeout,
		},
		{
			name: "dns failure",
			err:  &url.Error{Op: "Post", URL: webhook, Err: &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "hooks.example.test"}}},
			want: appErrors.ErrUpstreamUnreachable,
		},
		{
			name: "connection refused",
			err:  &url.Error{Op: "Post", URL: webhook, Err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED)},
			want: appErrors.ErrUpstreamUnreachable,
		},
		{
			name: "timeout wins over dial",
			err:  &url.Error{Op: "Post", URL: webhook, Err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}},
			want: appErrors.ErrUpstreamTimeout,
		},
		{name: "upstream 400", err: &UpstreamStatusError{StatusCode: http.StatusBadRequest}, want: appErrors.ErrUpstreamBadRequest},
		{name: "upstream 404", err: &UpstreamStatusError{StatusCode: http.StatusNotFound}, want: appErrors.ErrUpstreamNotFound},
		{name: "upstream 500", err: &UpstreamStatusError{StatusCode: http.StatusInternalServerError}, want: appErrors.ErrUpstreamServer},
		{name: "upstream 504", err: &UpstreamStatusError{StatusCode: http.StatusGatewayTimeout}, want: appErrors.ErrUpstreamServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyForwardError(tt.err)
			assert.True(t, errors.Is(got, tt.want), "got %s, want %s", got.Code, tt.want.Code)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.Message, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyForwardErrorFallbackHidesWebhookURL(t *testing.T) {
	err := &url.Error{Op: "Post", URL: "https://hooks.example.test/webhook/secret-id", Err: errors.New("tls: handshake failure")}

	got := classifyForwardError(err)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "Registration failed: tls: handshake failure. Please try again.", got.Message)
	assert.NotContains(t, got.Message, "secret-id")
}

func TestClassifyForwardErrorNil(t *testing.T) {
	assert.Nil(t, classifyForwardError(nil))
}
