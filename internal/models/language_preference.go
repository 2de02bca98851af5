package models

import (
	"regexp"
	"strings"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
)

// WildcardLanguage is the reserved preference token meaning "accept any language"
const WildcardLanguage = "all"

// MaxPreferenceTokens bounds the number of entries accepted in a preference list
const MaxPreferenceTokens = 32

var languageTokenRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,35}$`)

// LanguagePreference is an ordered, deduplicated list of requested language codes.
// It always ends with (or contains) the wildcard token.
type LanguagePreference []string

// ParseLanguagePreference parses a comma-separated preference string.
// An empty string yields fallback parsed the same way.
func ParseLanguagePreference(raw, fallback string) (LanguagePreference, error) {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}

	parts := strings.Split(raw, ",")
	pref := make(LanguagePreference, 0, len(parts)+1)
	seen := make(map[string]struct{}, len(parts))
	hasWildcard := false

	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if isWildcardAlias(token) {
			token = WildcardLanguage
		}
		if !languageTokenRegex.MatchString(token) {
			return nil, apperrors.NewValidationError("languagePreference", "invalid language token "+quote(token))
		}

		key := strings.ToLower(token)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		pref = append(pref, token)

		if token == WildcardLanguage {
			hasWildcard = true
		}
	}

	if len(pref) > MaxPreferenceTokens {
		return nil, apperrors.NewValidationError("languagePreference", "too many entries")
	}
	if !hasWildcard {
		pref = append(pref, WildcardLanguage)
	}
	return pref, nil
}

// IsWildcard reports whether token is the wildcard token
func IsWildcard(token string) bool {
	return token == WildcardLanguage
}

// String renders the preference the way it is accepted on input
func (p LanguagePreference) String() string {
	return strings.Join(p, ",")
}

func isWildcardAlias(token string) bool {
	switch strings.ToLower(token) {
	case WildcardLanguage, "*", "any":
		return true
	}
	return false
}

func quote(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return `"` + s + `"`
}
