package service

import (
	"strings"
	"unicode/utf8"
)

// ValidateNewTask checks a create request before any I/O.
// title and description are expected to be trimmed by the caller.
func ValidateNewTask(title, description, accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrNotLoggedIn
	}
	if strings.TrimSpace(title) == "" {
		return Validation("title", "title required")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLen {
		return Validation("title", "title too long: %d characters (max %d)", n, MaxTitleLen)
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLen {
		return Validation("description", "description too long: %d characters (max %d)", n, MaxDescriptionLen)
	}
	return nil
}
