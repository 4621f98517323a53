// Package prefs stores user preferences next to the session record.
package prefs

import (
	"fmt"
	"strings"

	"dtask/internal/storage"
)

// ThemeKey is the storage key of the theme preference.
const ThemeKey = "theme"

// Themes accepted by SetTheme. The first one is the default.
var Themes = []string{"system", "light", "dark"}

// Theme returns the saved theme, or the default when none is saved or the
// record is unreadable.
func Theme(kv *storage.Store) string {
	var theme string
	if err := kv.GetJSON(ThemeKey, &theme); err != nil {
		return Themes[0]
	}
	if !validTheme(theme) {
		return Themes[0]
	}
	return theme
}

// SetTheme saves theme.
func SetTheme(kv *storage.Store, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !validTheme(theme) {
		return fmt.Errorf("unknown theme: %s (want one of %s)", theme, strings.Join(Themes, ", "))
	}
	return kv.PutJSON(ThemeKey, theme)
}

// ResetTheme removes the saved theme.
func ResetTheme(kv *storage.Store) error {
	return kv.Delete(ThemeKey)
}

func validTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}
