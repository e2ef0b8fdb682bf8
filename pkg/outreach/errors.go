package outreach

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/auth"
)

// APIError is a single entry of the "errors" array of an error document.
type APIError struct {
	ID     string         `json:"id,omitempty"     yaml:"id,omitempty"`
	Status string         `json:"status,omitempty" yaml:"status,omitempty"`
	Title  string         `json:"title,omitempty"  yaml:"title,omitempty"`
	Detail string         `json:"detail,omitempty" yaml:"detail,omitempty"`
	Source map[string]any `json:"source,omitempty" yaml:"source,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}

	return fmt.Sprintf("%s: %s (id: %s)", e.Title, e.Detail, e.ID)
}

// RequestError is returned when the resource API answers with a non-2xx status.
// Errors holds the decoded error document, Body the raw payload.
type RequestError struct {
	StatusCode int        `json:"-"`
	Errors     []APIError `json:"errors"`
	Body       []byte     `json:"-"`
}

// Error implements the error interface for RequestError.
func (e *RequestError) Error() string {
	first := e.FirstError()
	if first == nil {
		text := http.StatusText(e.StatusCode)
		if text == "" {
			text = "unknown error"
		}

		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}

	return fmt.Sprintf("%d %s\ndetail: %s", e.StatusCode, first.Title, first.Detail)
}

// FirstError returns the first error or nil.
func (e *RequestError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// AuthenticationError reports credentials that cannot authorize a request:
// missing or expired tokens, or a refresh rejected by the authorization server.
type AuthenticationError struct {
	Message string
	// StatusCode is set when the token endpoint answered with a non-2xx status.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	switch {
	case e.Err == nil:
		return "authentication failed: " + e.Message
	case e.Message == "":
		return "authentication failed: " + e.Err.Error()
	default:
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure below the HTTP layer (connection refused,
// DNS failure, timeout). The original error is reachable through Unwrap.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the transport error unchanged.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Static errors for err113 compliance.
var (
	ErrCredentialsRequired      = errors.New("credentials are required")
	ErrCredentialsInvalid       = errors.New("credentials are missing an access token or have expired")
	ErrMissingRefreshToken      = errors.New("credentials have no refresh token")
	ErrMissingClientCredentials = errors.New("client ID and client secret are required to refresh")
	ErrIncompleteTokenResponse  = auth.ErrIncompleteTokenResponse
	ErrResourceTypeRequired     = errors.New("resource type is required")
	ErrIDRequired               = errors.New("resource ID is required")
	ErrAttributesRequired       = errors.New("attributes must not be empty")
	ErrNothingToUpdate          = errors.New("update requires attributes or relationships")
	ErrUnexpectedDocument       = errors.New("unexpected document shape")
)

// IsNotFound checks if the error is a 404 from the resource API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 from the resource API.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 from the resource API.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsAuthentication checks if the error is an AuthenticationError.
func IsAuthentication(err error) bool {
	authErr := &AuthenticationError{}

	return errors.As(err, &authErr)
}

// IsTransport checks if the error is a TransportError.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

func hasStatus(err error, status int) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == status
	}

	return false
}

// ParseRequestError builds a RequestError from a status code and response body.
// A body that is not an error document is kept in Body only.
func ParseRequestError(statusCode int, data []byte) *RequestError {
	reqErr := &RequestError{StatusCode: statusCode, Body: data}
	if len(data) == 0 {
		return reqErr
	}

	var doc struct {
		Errors []APIError `json:"errors"`
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		reqErr.Errors = doc.Errors
	}

	return reqErr
}
