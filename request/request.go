// Package request defines the service-request record that every index in this
// module is built from, together with its lifecycle Status, query Filter,
// ordering keys, and tracking-code generation.
//
// Requests are plain values owned by a record source; the indexes hold
// pointers to them and never mutate them.
package request

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for request validation.
var (
	// ErrEmptyTitle indicates a request without a title.
	ErrEmptyTitle = errors.New("request: title is empty")

	// ErrInvalidStatus indicates an unknown lifecycle status.
	ErrInvalidStatus = errors.New("request: invalid status")

	// ErrInvalidPriority indicates a priority outside MinPriority..MaxPriority.
	ErrInvalidPriority = errors.New("request: invalid priority")
)

// Priority bounds. Lower is more urgent.
const (
	MinPriority     = 1
	MaxPriority     = 3
	DefaultPriority = 2
)

// Status represents the lifecycle state of a request.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusInProgress Status = "InProgress"
	StatusOnHold     Status = "OnHold"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus resolves s case-insensitively, ignoring spaces, dashes and
// underscores, so "in_progress", "In Progress" and "InProgress" all match.
func ParseStatus(s string) (Status, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range []Status{StatusSubmitted, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled} {
		if strings.ToLower(string(st)) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Request is a single municipal service request.
type Request struct {
	ID           int64      `json:"id" yaml:"id" toml:"id"`
	OwnerID      string     `json:"owner_id" yaml:"owner_id" toml:"owner_id"`
	Title        string     `json:"title" yaml:"title" toml:"title"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Category     string     `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Location     string     `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
	Priority     int        `json:"priority" yaml:"priority" toml:"priority"`
	Status       Status     `json:"status" yaml:"status" toml:"status"`
	SubmittedAt  time.Time  `json:"submitted_at" yaml:"submitted_at" toml:"submitted_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty" toml:"completed_at,omitempty"`
	TrackingCode string     `json:"tracking_code" yaml:"tracking_code" toml:"tracking_code"`
}

// Validate reports the first structural problem with r, or nil.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	if r.Priority < MinPriority || r.Priority > MaxPriority {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, r.Priority)
	}
	return nil
}

// IsCompleted reports whether r has reached the Completed state.
func (r *Request) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// Text returns the lower-cased title and description joined by a space.
func (r *Request) Text() string {
	return strings.ToLower(r.Title + " " + r.Description)
}
