package models

import (
	"strings"

	"github.com/rohanthewiz/serr"
)

// Theme selects one of the two static style tables.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Variant captures the behavioral differences between the two front-ends
// the search view ships as.
//
//	classic: free-text author, theme toggle (starts light), no suggestions,
//	         stale results kept when every field is cleared
//	suggest: author dropdown, fixed dark theme, title/author suggestions,
//	         results cleared when every field is cleared
type Variant string

const (
	VariantClassic Variant = "classic"
	VariantSuggest Variant = "suggest"
)

// ParseVariant accepts the variant name (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantClassic, "":
		return VariantClassic, nil
	case VariantSuggest:
		return VariantSuggest, nil
	}
	return "", serr.New("unknown variant: " + s + " (expected classic or suggest)")
}

// ThemeToggle reports whether the user can switch themes.
func (v Variant) ThemeToggle() bool { return v == VariantClassic }

// Suggestions reports whether the suggestion fetcher is active.
func (v Variant) Suggestions() bool { return v == VariantSuggest }

// AuthorDropdown reports whether author is a fixed selection rather than free text.
func (v Variant) AuthorDropdown() bool { return v == VariantSuggest }

// InitialTheme is the theme a new view starts with.
func (v Variant) InitialTheme() Theme {
	if v == VariantSuggest {
		return ThemeDark
	}
	return ThemeLight
}

// ClearsOnEmpty is the default for dropping results once every field is empty.
func (v Variant) ClearsOnEmpty() bool { return v == VariantSuggest }
