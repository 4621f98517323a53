// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"dtask/internal/service"
)

const (
	// EmptyList is printed when the account has no tasks.
	EmptyList = "no tasks yet"

	// DateLayout is the short created-date format.
	DateLayout = "Jan 2"

	// width of "#id" column plus badge, used to align descriptions
	descIndent = "           "
)

// FormatTask formats one task.
// Format: "{#ID:>5}  {BADGE} {TITLE}[  (Jan 2)]\n" followed by an indented
// description line when the task has one.
func FormatTask(w io.Writer, task service.Task) {
	ref := "#" + strconv.FormatInt(task.ID, 10)
	fmt.Fprintf(w, "%5s  %s %s", ref, Badge(task), normalizeTitle(task.Title))
	if !task.CreatedDate.IsZero() {
		fmt.Fprintf(w, "  (%s)", task.CreatedDate.Format(DateLayout))
	}
	fmt.Fprintln(w)

	if desc := flatten(task.Description); strings.TrimSpace(desc) != "" {
		fmt.Fprintf(w, "%s%s\n", descIndent, desc)
	}
}

// FormatTasks formats a whole collection. An empty collection prints
// EmptyList unless quiet is set.
func FormatTasks(w io.Writer, tasks []service.Task, quiet bool) {
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(w, EmptyList)
		}
		return
	}
	for _, task := range tasks {
		FormatTask(w, task)
	}
}

// Badge returns "[x]" for completed tasks and "[ ]" otherwise.
func Badge(task service.Task) string {
	if task.Completed() {
		return "[x]"
	}
	return "[ ]"
}

// FormatSession formats the logged-in identity.
func FormatSession(w io.Writer, sess service.Session) {
	if sess.Username == "" {
		fmt.Fprintln(w, sess.Email)
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", sess.Username, sess.Email)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
