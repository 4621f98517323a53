package service_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"dtask/internal/service"
)

func TestTimestamp_UnmarshalFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2025-03-04T10:20:30Z"`, time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"sql datetime", `"2025-03-04 10:20:30"`, time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"sql timestamp", `"2025-03-04 10:20:30.0"`, time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"date only", `"2025-03-04"`, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", `1741083630000`, time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts service.Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ts.Time)
			}
		})
	}
}

func TestTimestamp_UnmarshalGarbage(t *testing.T) {
	var ts service.Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unrecognized time")
	}
}

func TestTask_NormalizeDefaultsState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", service.StatePending},
		{"PENDING", service.StatePending},
		{"completed", service.StateCompleted},
		{"COMPLETED", service.StateCompleted},
		{"archived", service.StatePending},
	}

	for _, tt := range tests {
		got := service.Task{Title: " Buy milk ", State: tt.in}.Normalize()
		if got.State != tt.want {
			t.Errorf("state %q: expected %q, got %q", tt.in, tt.want, got.State)
		}
		if got.Title != "Buy milk" {
			t.Errorf("expected trimmed title, got %q", got.Title)
		}
	}
}

func TestValidateNewTask(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		desc    string
		account string
		field   string
	}{
		{"ok", "Buy milk", "", "a@b.com", ""},
		{"empty title", "", "x", "a@b.com", "title"},
		{"blank title", "   ", "", "a@b.com", "title"},
		{"long title", strings.Repeat("t", 101), "", "a@b.com", "title"},
		{"max title", strings.Repeat("t", 100), "", "a@b.com", ""},
		{"long description", "ok", strings.Repeat("d", 501), "a@b.com", "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateNewTask(tt.title, tt.desc, tt.account)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *service.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestValidateNewTask_NoAccount(t *testing.T) {
	err := service.ValidateNewTask("Buy milk", "", "")
	if !errors.Is(err, service.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestTransportError_Retryable(t *testing.T) {
	tests := []struct {
		err  *service.TransportError
		want bool
	}{
		{&service.TransportError{Op: "list", Timeout: true}, true},
		{&service.TransportError{Op: "list", Err: errors.New("connection refused")}, true},
		{&service.TransportError{Op: "list", StatusCode: 503}, true},
		{&service.TransportError{Op: "list", StatusCode: 400}, false},
	}

	for _, tt := range tests {
		if got := tt.err.Retryable(); got != tt.want {
			t.Errorf("%v: expected retryable=%v, got %v", tt.err, tt.want, got)
		}
	}
}
