package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	// Fields maps form field paths to validation messages, when the API
	// answered with a list of {path, msg} entries.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote: %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("remote: %s %s returned %d", e.Method, e.Path, e.Status)
}

type fieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		e.Message = http.StatusText(status)
		return e
	}

	if body[0] == '[' {
		var list []fieldError
		if err := json.Unmarshal(body, &list); err == nil {
			e.Fields = make(map[string]string, len(list))
			for _, f := range list {
				e.Fields[f.Path] = f.Msg
			}
			e.Message = "validation failed"
			return e
		}
	}

	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &msg); err == nil {
		switch {
		case msg.Message != "":
			e.Message = msg.Message
		case msg.Error != "":
			e.Message = msg.Error
		case msg.Msg != "":
			e.Message = msg.Msg
		}
	}
	if e.Message == "" {
		e.Message = string(body)
	}
	return e
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the API rejected the session.
func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
