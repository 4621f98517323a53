// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Task states as sent by the backend.
const (
	StatePending   = "PENDING"
	StateCompleted = "COMPLETED"
)

// Field limits enforced before a task is sent.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// Task represents a single task item.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state,omitempty"` // "PENDING" or "COMPLETED"
	CreatedDate Timestamp `json:"createdDate"`
}

// Completed reports whether the task is done.
func (t Task) Completed() bool {
	return t.State == StateCompleted
}

// Normalize fills defaults the backend may omit.
// Unknown or missing states become PENDING.
func (t Task) Normalize() Task {
	t.Title = strings.TrimSpace(t.Title)
	switch strings.ToUpper(strings.TrimSpace(t.State)) {
	case StateCompleted:
		t.State = StateCompleted
	default:
		t.State = StatePending
	}
	return t
}

// Session identifies the logged-in account.
// Email is the account key sent with every task request.
type Session struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// DisplayName returns the username, falling back to the email.
func (s Session) DisplayName() string {
	if strings.TrimSpace(s.Username) != "" {
		return s.Username
	}
	return s.Email
}

// DeleteResult is the backend's answer to a delete request.
type DeleteResult struct {
	Success bool `json:"success"`
}

// RegisterResult is the backend's answer to a registration request.
// Session is set when the backend echoes the new account.
type RegisterResult struct {
	Success bool
	Message string
	Session *Session
}

// Timestamp is a server-assigned time that accepts the formats
// servlet backends commonly emit.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006 3:04:05 PM",
}

// UnmarshalJSON accepts a string in one of timestampLayouts,
// epoch milliseconds, or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		ts.Time = time.Time{}
		return nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		ts.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("createdDate: %w", err)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("createdDate: unrecognized time %q", s)
}

// MarshalJSON writes RFC3339, or null for the zero time.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}
