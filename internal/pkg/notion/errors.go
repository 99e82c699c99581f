package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api error: status=%d body=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion api error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	var raw struct {
		Object  string `json:"object"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err == nil && raw.Object == "error" {
		return &APIError{Status: status, Code: raw.Code, Message: raw.Message}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
}

// ValidationError rejects an inbound record event before any outbound call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid record event: " + strings.Join(e.Fields, "; ")
}
