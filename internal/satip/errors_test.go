package satip

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "Bind Error", ErrTypeBind.String())
	assert.Equal(t, "Missing Location", ErrTypeMissingLocation.String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
}

func TestError_CauseChain(t *testing.T) {
	cause := &net.OpError{Op: "listen", Net: "udp4", Err: syscall.EADDRINUSE}
	err := NewBindError("127.0.0.1:1900", cause)

	assert.Contains(t, err.Error(), "Bind Error: unable to bind UDP socket")
	assert.Contains(t, err.Error(), "caused by")
	assert.True(t, errors.Is(err, syscall.EADDRINUSE), "cause must be reachable through Unwrap")

	var opErr *net.OpError
	assert.True(t, errors.As(err, &opErr))

	wrapped := fmt.Errorf("scan failed: %w", err)
	assert.True(t, errors.Is(wrapped, &Error{Type: ErrTypeBind}))
	assert.False(t, errors.Is(wrapped, &Error{Type: ErrTypeSend}))
}

func TestError_WithoutCause(t *testing.T) {
	err := NewConfigError("wait time must be positive")
	assert.Equal(t, "Invalid Config: wait time must be positive", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "config", err: NewConfigError("x"), want: true},
		{name: "address", err: NewAddressError("x", nil), want: true},
		{name: "bind", err: NewBindError("x", nil), want: true},
		{name: "send", err: NewSendError("x", nil), want: true},
		{name: "receive", err: NewReceiveError("x", nil), want: true},
		{name: "malformed reply", err: NewResponseError(ErrTypeMalformedResponse, "x", nil), want: false},
		{name: "incomplete reply", err: NewResponseError(ErrTypeIncompleteResponse, "x", nil), want: false},
		{name: "fetch", err: NewFetchError("http://x", 500, nil), want: false},
		{name: "description parse", err: NewDescriptionParseError("x", nil), want: false},
		{name: "foreign error", err: errors.New("boom"), want: true},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestShortMessage(t *testing.T) {
	assert.Equal(t, `Invalid address "nope" - expected numeric host:port`, ShortMessage(NewAddressError("nope", nil)))
	assert.Equal(t, "Cannot bind to 0.0.0.0:1900", ShortMessage(NewBindError("0.0.0.0:1900", nil)))
	assert.Equal(t, "Description unavailable", ShortMessage(NewFetchError("http://x", 0, errors.New("dial"))))
	assert.Equal(t, "plain", ShortMessage(errors.New("plain")))
}

func TestTroubleshootingTips(t *testing.T) {
	for _, err := range []error{
		NewAddressError("x", nil),
		NewBindError("x", nil),
		NewSendError("x", nil),
		NewReceiveError("x", nil),
	} {
		tips := TroubleshootingTips(err)
		assert.NotEmpty(t, tips, "expected tips for %v", err)
		for _, tip := range tips {
			assert.False(t, strings.HasSuffix(tip, "."), "tip %q should not end with a period", tip)
		}
	}

	assert.Nil(t, TroubleshootingTips(errors.New("other")))
	assert.Nil(t, TroubleshootingTips(NewFetchError("http://x", 404, nil)))
}
