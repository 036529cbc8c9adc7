package easemob

import (
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrUnsupportedOperation is returned when a request uses a verb outside
	// the closed Verb set. No network call is made.
	ErrUnsupportedOperation = errors.New("easemob: unsupported operation")

	// ErrTokenResponseMalformed is returned when the token endpoint answers
	// 2xx but the body has no access_token.
	ErrTokenResponseMalformed = errors.New("easemob: token response missing access_token")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("easemob: invalid config")
)

// ============================================================================
// TransportError - request never produced a response
// ============================================================================

// TransportError reports a failed HTTP exchange that produced no response:
// DNS, connection, TLS, timeout or context cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("easemob: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseCarrier is implemented by transport errors that still carry an
// HTTP response. The dispatcher unwraps such errors into a normal Response.
type ResponseCarrier interface {
	HTTPResponse() *http.Response
}

// ============================================================================
// ResponseDecodeError - body was expected to be JSON but is not
// ============================================================================

type ResponseDecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ResponseDecodeError) Error() string {
	return fmt.Sprintf("easemob: decode response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *ResponseDecodeError) Unwrap() error { return e.Err }

// ============================================================================
// APIError - EaseMob error body
// ============================================================================

// APIError is an error reported by the EaseMob service, e.g.
//
//	{"error":"invalid_grant","error_description":"client_id does not exist"}
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"-"`

	// Code is the EaseMob error code (e.g. "invalid_grant", "service_resource_not_found")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// Response is the raw response, when one is available
	Response *Response `json:"-"`
}

func (e *APIError) Error() string {
	switch {
	case e.Code == "" && e.Description == "":
		return fmt.Sprintf("easemob: HTTP %d", e.StatusCode)
	case e.Description == "":
		return fmt.Sprintf("easemob: HTTP %d: %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("easemob: HTTP %d: %s: %s", e.StatusCode, e.Code, e.Description)
	}
}

// IsAPIError reports whether err is an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseErrorResponse builds an APIError from a non-2xx response. Bodies that
// are not EaseMob error JSON keep the raw text as the description.
func parseErrorResponse(resp *Response) *APIError {
	apiErr := &APIError{}
	if err := resp.DecodeJSON(apiErr); err != nil || (apiErr.Code == "" && apiErr.Description == "") {
		*apiErr = APIError{Description: string(resp.Body)}
	}
	apiErr.StatusCode = resp.StatusCode
	apiErr.Response = resp
	return apiErr
}
