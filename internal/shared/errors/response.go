// Package errors models the business body the Petstore returns on errors and
// acknowledgements: {"code": int, "type": string, "message": string}.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIResponse is the Petstore ApiResponse body.
type APIResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error implements the error interface so twins and callers can pass an
// APIResponse through error-returning paths.
func (r APIResponse) Error() string {
	if r.Message != "" {
		return fmt.Sprintf("%s (%d): %s", r.Type, r.Code, r.Message)
	}
	return fmt.Sprintf("%s (%d)", r.Type, r.Code)
}

// WithMessage returns a copy with the given message.
func (r APIResponse) WithMessage(message string) APIResponse {
	r.Message = message
	return r
}

// Response types used by the Petstore.
const (
	TypeError   = "error"
	TypeUnknown = "unknown"
)

// Pre-defined bodies for the business errors the Petstore reports.
var (
	ErrNotFound = APIResponse{Code: 1, Type: TypeError}

	ErrBadInput = APIResponse{Code: http.StatusBadRequest, Type: TypeUnknown, Message: "bad input"}

	ErrInternal = APIResponse{Code: http.StatusInternalServerError, Type: TypeUnknown, Message: "something bad happened"}
)

// Ack builds the acknowledgement body returned by successful mutations.
func Ack(message string) APIResponse {
	return APIResponse{Code: http.StatusOK, Type: TypeUnknown, Message: message}
}

// NotFound builds the body used when a resource does not exist, e.g.
// NotFound("Pet") yields message "Pet not found".
func NotFound(resource string) APIResponse {
	return ErrNotFound.WithMessage(resource + " not found")
}

// Decode parses a response body as an APIResponse.
func Decode(body []byte) (APIResponse, error) {
	var r APIResponse
	if len(body) == 0 {
		return r, fmt.Errorf("decode api response: empty body")
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return r, fmt.Errorf("decode api response: %w", err)
	}
	return r, nil
}
