package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrOffline       = errors.New("offline")
	ErrInvalidDrop   = errors.New("invalid drop")
	ErrStaleMutation = errors.New("superseded by a newer change")
)

// APIError represents a failed call to the ERP REST API
type APIError struct {
	Op         string // Operation: "list", "patch", "create"
	Resource   string // Collection: "taskStages", "wbsItems"
	ID         string // Optional: specific entity ID
	StatusCode int    // HTTP status, 0 when the request never got a response
	Message    string // Human-readable context
	Err        error  // Underlying error
}

func (e *APIError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target = fmt.Sprintf("%s [%s]", e.Resource, e.ID)
	}
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("api %s %s: %d %s", e.Op, target, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("api %s %s: status %d", e.Op, target, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("api %s %s: %s", e.Op, target, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api %s %s: %v", e.Op, target, e.Err)
	}
	return fmt.Sprintf("api %s %s failed", e.Op, target)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the same request could succeed
func (e *APIError) Temporary() bool {
	if e.StatusCode == 0 {
		// transport failures carry no message; encode/decode failures do
		return e.Message == "" && e.Err != nil &&
			!errors.Is(e.Err, ErrOffline) &&
			!errors.Is(e.Err, context.Canceled) &&
			!errors.Is(e.Err, context.DeadlineExceeded)
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}
