package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// DefaultErrorMessage is shown when nothing better can be extracted.
const DefaultErrorMessage = "Erro desconhecido no servidor"

// APIError is a non-2xx answer from the backend. Body holds the decoded JSON
// payload when the answer was JSON, otherwise the raw text.
type APIError struct {
	StatusCode int
	Status     string
	Body       any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// UserError carries a message fit for display together with its cause.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError wraps err with the message ExtractMessage derives from it.
func NewUserError(err error) error {
	if err == nil {
		return nil
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return err
	}
	return &UserError{Message: ExtractMessage(err), Err: err}
}

// ExtractMessage reduces err to a human readable message. For API errors the
// body is inspected in order: "message", the "errors" array joined with ", ",
// a plain string body or "error" field. The transport message is used next and
// DefaultErrorMessage last.
func ExtractMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}

	var ue *UserError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := messageFromBody(apiErr.Body); msg != "" {
			return msg
		}
		if apiErr.Status != "" {
			return apiErr.Status
		}
		return DefaultErrorMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

func messageFromBody(body any) string {
	switch b := body.(type) {
	case string:
		return strings.TrimSpace(b)
	case map[string]any:
		if msg, ok := b["message"].(string); ok && msg != "" {
			return msg
		}
		if list, ok := b["errors"].([]any); ok && len(list) > 0 {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				switch v := item.(type) {
				case string:
					if v != "" {
						parts = append(parts, v)
					}
				case map[string]any:
					if m, ok := v["message"].(string); ok && m != "" {
						parts = append(parts, m)
					}
				case nil:
				default:
					parts = append(parts, fmt.Sprint(v))
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
		if msg, ok := b["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}
