package api

import (
	"encoding/json"
	"fmt"
)

// Error is a structured failure from the remote access/billing service.
// Message is taken from the response body when the service provided
// one; an empty Message means the body carried no readable explanation.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: %s: status %d", e.Op, e.StatusCode)
}

// errorBody is the shape probed for a human-readable message. Services
// differ on the field name, so both are accepted.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// newError builds an *Error from a failed response body. A body that is
// not JSON, or carries no message field, yields an empty Message.
func newError(op string, statusCode int, body []byte) *Error {
	e := &Error{Op: op, StatusCode: statusCode}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			e.Message = parsed.Message
		} else if parsed.Err != "" {
			e.Message = parsed.Err
		}
	}
	return e
}
