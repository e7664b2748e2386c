package satip

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error that occurred during discovery
type ErrorType int

const (
	// ErrTypeInvalidConfig indicates a configuration value is out of range
	ErrTypeInvalidConfig ErrorType = iota
	// ErrTypeInvalidAddress indicates an endpoint string is not a literal host:port
	ErrTypeInvalidAddress
	// ErrTypeBind indicates the local UDP socket could not be bound
	ErrTypeBind
	// ErrTypeSend indicates the M-SEARCH datagram could not be sent
	ErrTypeSend
	// ErrTypeReceive indicates the socket failed while waiting for replies
	ErrTypeReceive
	// ErrTypeIncompleteResponse indicates a reply whose header block never terminated
	ErrTypeIncompleteResponse
	// ErrTypeMalformedResponse indicates a reply that is not a valid SSDP status response
	ErrTypeMalformedResponse
	// ErrTypeMissingLocation indicates a reply without a LOCATION header
	ErrTypeMissingLocation
	// ErrTypeInvalidLocation indicates a LOCATION header that is not an absolute URL
	ErrTypeInvalidLocation
	// ErrTypeDescriptionFetch indicates the description document could not be retrieved
	ErrTypeDescriptionFetch
	// ErrTypeDescriptionParse indicates the description document is not usable XML
	ErrTypeDescriptionParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeInvalidConfig:
		return "Invalid Config"
	case ErrTypeInvalidAddress:
		return "Invalid Address"
	case ErrTypeBind:
		return "Bind Error"
	case ErrTypeSend:
		return "Send Error"
	case ErrTypeReceive:
		return "Receive Error"
	case ErrTypeIncompleteResponse:
		return "Incomplete Response"
	case ErrTypeMalformedResponse:
		return "Malformed Response"
	case ErrTypeMissingLocation:
		return "Missing Location"
	case ErrTypeInvalidLocation:
		return "Invalid Location"
	case ErrTypeDescriptionFetch:
		return "Description Fetch Error"
	case ErrTypeDescriptionParse:
		return "Description Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every discovery step. Err keeps the underlying cause
// so callers can inspect it with errors.Is / errors.As.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	Err        error     // Underlying error (if any)
	StatusCode int       // HTTP status code (description fetch only)
	Addr       string    // Endpoint or URL involved (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by type, so errors.Is(err, &Error{Type: ErrTypeBind})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Err == nil
}

func newError(typ ErrorType, addr, message string, err error) *Error {
	return &Error{
		Type:    typ,
		Message: message,
		Err:     err,
		Addr:    addr,
	}
}

// NewConfigError creates a configuration validation error
func NewConfigError(message string) *Error {
	return newError(ErrTypeInvalidConfig, "", message, nil)
}

// NewAddressError creates an invalid address error for the given input
func NewAddressError(addr string, err error) *Error {
	return newError(ErrTypeInvalidAddress, addr, fmt.Sprintf("could not parse address %q", addr), err)
}

// NewBindError creates a socket bind error
func NewBindError(addr string, err error) *Error {
	return newError(ErrTypeBind, addr, "unable to bind UDP socket", err)
}

// NewSendError creates a send error for the discovery request
func NewSendError(addr string, err error) *Error {
	return newError(ErrTypeSend, addr, "error sending discovery request", err)
}

// NewReceiveError creates a receive error for the discovery socket
func NewReceiveError(addr string, err error) *Error {
	return newError(ErrTypeReceive, addr, "error receiving discovery response", err)
}

// NewResponseError creates a per-reply parse error of the given type
func NewResponseError(typ ErrorType, message string, err error) *Error {
	return newError(typ, "", message, err)
}

// NewFetchError creates a description fetch error. statusCode is 0 when the
// request never produced a response.
func NewFetchError(location string, statusCode int, err error) *Error {
	message := "description request failed"
	if statusCode != 0 {
		message = fmt.Sprintf("unexpected status code: %d %s", statusCode, http.StatusText(statusCode))
	}
	e := newError(ErrTypeDescriptionFetch, location, message, err)
	e.StatusCode = statusCode
	return e
}

// NewDescriptionParseError creates a description parse error
func NewDescriptionParseError(message string, err error) *Error {
	return newError(ErrTypeDescriptionParse, "", message, err)
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

// IsFatal reports whether err aborts a whole discovery run, as opposed to
// affecting a single reply or device.
func IsFatal(err error) bool {
	typ, ok := errorType(err)
	if !ok {
		return err != nil
	}
	switch typ {
	case ErrTypeInvalidConfig, ErrTypeInvalidAddress, ErrTypeBind, ErrTypeSend, ErrTypeReceive:
		return true
	default:
		return false
	}
}

// IsAddressError checks if an error is an invalid address error
func IsAddressError(err error) bool {
	typ, ok := errorType(err)
	return ok && typ == ErrTypeInvalidAddress
}

// IsResponseError checks if an error concerns a single unusable reply
func IsResponseError(err error) bool {
	typ, ok := errorType(err)
	if !ok {
		return false
	}
	switch typ {
	case ErrTypeIncompleteResponse, ErrTypeMalformedResponse, ErrTypeMissingLocation, ErrTypeInvalidLocation:
		return true
	default:
		return false
	}
}

// IsDescriptionError checks if an error concerns a single device description
func IsDescriptionError(err error) bool {
	typ, ok := errorType(err)
	return ok && (typ == ErrTypeDescriptionFetch || typ == ErrTypeDescriptionParse)
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeInvalidConfig:
		return e.Message
	case ErrTypeInvalidAddress:
		return fmt.Sprintf("Invalid address %q - expected numeric host:port", e.Addr)
	case ErrTypeBind:
		return fmt.Sprintf("Cannot bind to %s", e.Addr)
	case ErrTypeSend:
		return fmt.Sprintf("Cannot send discovery request to %s", e.Addr)
	case ErrTypeReceive:
		return "Network error while waiting for replies"
	case ErrTypeDescriptionFetch:
		if e.StatusCode != 0 {
			return fmt.Sprintf("Description unavailable (HTTP %d)", e.StatusCode)
		}
		return "Description unavailable"
	default:
		return e.Message
	}
}

// TroubleshootingTips returns advice for a fatal discovery error, or nil
// when there is nothing specific to suggest.
func TroubleshootingTips(err error) []string {
	typ, ok := errorType(err)
	if !ok {
		return nil
	}

	switch typ {
	case ErrTypeInvalidAddress, ErrTypeInvalidConfig:
		return []string{
			"Addresses must be numeric, e.g. 0.0.0.0:0 or 239.255.255.250:1900",
			"Host names are not resolved",
			"IPv6 addresses need brackets, e.g. [::]:0",
		}
	case ErrTypeBind:
		return []string{
			"Check that the bind address belongs to this machine",
			"Ports below 1024 need elevated privileges",
			"Another process may already hold the port - use port 0",
		}
	case ErrTypeSend:
		return []string{
			"Check that a network interface with multicast support is up",
			"The bind and target addresses must use the same IP family",
			"Try selecting the interface explicitly with --interface",
		}
	case ErrTypeReceive:
		return []string{
			"The network interface may have gone down during discovery",
			"Re-run the scan; a firewall may be dropping UDP replies",
		}
	default:
		return nil
	}
}
