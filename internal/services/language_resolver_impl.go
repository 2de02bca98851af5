package services

import (
	"regexp"
	"strings"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/models"

	"golang.org/x/text/language"
)

// WildcardPriority is the order in which common languages are tried once the wildcard is reached
var WildcardPriority = []string{"en", "en-US", "en-GB", "es", "fr", "de", "pt", "it", "ja"}

var bareSubtagRegex = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// resolverRule matches a preference token against the catalog. Wildcard rules ignore the token.
type resolverRule struct {
	name  string
	match func(token string, catalog *models.CaptionCatalog) (string, bool)
	kind  models.TrackKind
}

// tokenRules are evaluated in order for every explicit token
var tokenRules = []resolverRule{
	{name: "exact-manual", kind: models.TrackKindManual, match: exactMatch(models.TrackKindManual)},
	{name: "exact-auto", kind: models.TrackKindAuto, match: exactMatch(models.TrackKindAuto)},
	{name: "variant-manual", kind: models.TrackKindManual, match: variantMatch(models.TrackKindManual)},
	{name: "variant-auto", kind: models.TrackKindAuto, match: variantMatch(models.TrackKindAuto)},
}

// wildcardRules are evaluated once, when the wildcard token is reached
var wildcardRules = []resolverRule{
	{name: "wildcard-priority-manual", kind: models.TrackKindManual, match: priorityMatch(models.TrackKindManual)},
	{name: "wildcard-priority-auto", kind: models.TrackKindAuto, match: priorityMatch(models.TrackKindAuto)},
	{name: "wildcard-first-manual", kind: models.TrackKindManual, match: firstMatch(models.TrackKindManual)},
	{name: "wildcard-first-auto", kind: models.TrackKindAuto, match: firstMatch(models.TrackKindAuto)},
}

// DefaultLanguageResolver implements LanguageResolver with the rule tables above
type DefaultLanguageResolver struct{}

// NewLanguageResolver creates a new language resolver
func NewLanguageResolver() LanguageResolver {
	return &DefaultLanguageResolver{}
}

// Resolve implements LanguageResolver. Tokens after the wildcard are never consulted.
func (r *DefaultLanguageResolver) Resolve(pref models.LanguagePreference, catalog *models.CaptionCatalog) (*Selection, error) {
	logger := config.GetLogger()

	if catalog == nil {
		catalog = models.NewCaptionCatalog()
	}

	for _, token := range pref {
		rules := tokenRules
		if models.IsWildcard(token) {
			rules = wildcardRules
		}

		for _, rule := range rules {
			lang, ok := rule.match(token, catalog)
			if !ok {
				continue
			}
			_, tracks, _ := catalog.Lookup(rule.kind, lang)
			if len(tracks) == 0 {
				continue
			}

			logger.Debug().
				Str("token", token).
				Str("rule", rule.name).
				Str("language", lang).
				Str("kind", rule.kind.String()).
				Msg("Resolved caption language")

			return &Selection{
				Track:    tracks[0],
				Language: lang,
				Kind:     rule.kind,
				Rule:     rule.name,
			}, nil
		}

		if models.IsWildcard(token) {
			break
		}
	}

	return nil, &apperrors.ErrNoCaptionsAvailable{
		Manual: catalog.Languages(models.TrackKindManual),
		Auto:   catalog.Languages(models.TrackKindAuto),
		Tried:  append([]string(nil), pref...),
	}
}

func exactMatch(kind models.TrackKind) func(string, *models.CaptionCatalog) (string, bool) {
	return func(token string, catalog *models.CaptionCatalog) (string, bool) {
		lang, _, ok := catalog.Lookup(kind, token)
		return lang, ok
	}
}

// variantMatch matches a bare language subtag ("en") against the first regional or
// script variant in sorted order ("en-GB", "en-US", "en-orig").
func variantMatch(kind models.TrackKind) func(string, *models.CaptionCatalog) (string, bool) {
	return func(token string, catalog *models.CaptionCatalog) (string, bool) {
		if !bareSubtagRegex.MatchString(token) {
			return "", false
		}
		for _, lang := range catalog.Languages(kind) {
			if strings.EqualFold(lang, token) {
				continue
			}
			if sameBaseLanguage(token, lang) {
				return lang, true
			}
		}
		return "", false
	}
}

func priorityMatch(kind models.TrackKind) func(string, *models.CaptionCatalog) (string, bool) {
	return func(_ string, catalog *models.CaptionCatalog) (string, bool) {
		for _, code := range WildcardPriority {
			if lang, _, ok := catalog.Lookup(kind, code); ok {
				return lang, true
			}
		}
		return "", false
	}
}

func firstMatch(kind models.TrackKind) func(string, *models.CaptionCatalog) (string, bool) {
	return func(_ string, catalog *models.CaptionCatalog) (string, bool) {
		langs := catalog.Languages(kind)
		if len(langs) == 0 {
			return "", false
		}
		return langs[0], true
	}
}

// sameBaseLanguage compares the primary language subtags of a bare token and a catalog
// code. BCP 47 parsing canonicalizes legacy codes ("iw" and "he"); producer codes it
// rejects ("en-orig") fall back to the text before the first separator.
func sameBaseLanguage(token, code string) bool {
	if tokenBase, err := language.ParseBase(token); err == nil {
		if tag, err := language.Parse(code); err == nil {
			if codeBase, _ := tag.Base(); codeBase == tokenBase {
				return true
			}
		}
	}

	prefix, _, _ := strings.Cut(strings.ReplaceAll(code, "_", "-"), "-")
	return strings.EqualFold(prefix, token)
}
