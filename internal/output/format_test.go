package output_test

import (
	"bytes"
	"testing"
	"time"

	"dtask/internal/output"
	"dtask/internal/service"
	"dtask/internal/testutil"
)

func TestFormatTasks_Golden(t *testing.T) {
	tasks := []service.Task{
		{
			ID:          1,
			Title:       "Buy milk",
			State:       service.StatePending,
			CreatedDate: service.Timestamp{Time: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)},
		},
		{
			ID:          12,
			Title:       "Walk dog",
			Description: "around the\nblock",
			State:       service.StateCompleted,
			CreatedDate: service.Timestamp{Time: time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)},
		},
		{
			ID:    123,
			Title: "  ",
			State: service.StatePending,
		},
	}

	var buf bytes.Buffer
	output.FormatTasks(&buf, tasks, false)
	testutil.Golden(t, "tasks", buf.Bytes())
}

func TestFormatTasks_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTasks(&buf, nil, false)
	if buf.String() != "no tasks yet\n" {
		t.Errorf("expected empty-state line, got %q", buf.String())
	}

	buf.Reset()
	output.FormatTasks(&buf, nil, true)
	if buf.String() != "" {
		t.Errorf("expected nothing in quiet mode, got %q", buf.String())
	}
}

func TestFormatTask_WhitespaceDescriptionOmitted(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, service.Task{ID: 7, Title: "x", Description: " \n "})
	if buf.String() != "   #7  [ ] x\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatSession(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSession(&buf, service.Session{Email: "a@b.com", Username: "Ann Lee"})
	if buf.String() != "Ann Lee <a@b.com>\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	output.FormatSession(&buf, service.Session{Email: "a@b.com"})
	if buf.String() != "a@b.com\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
