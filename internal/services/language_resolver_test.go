package services

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/models"
)

func catalogOf(manual, auto []string) *models.CaptionCatalog {
	catalog := models.NewCaptionCatalog()
	for _, lang := range manual {
		catalog.Manual[lang] = []models.CaptionTrack{{LanguageCode: lang, Kind: models.TrackKindManual, Source: "https://example.com/m/" + lang, Format: models.CaptionFormatVTT}}
	}
	for _, lang := range auto {
		catalog.Auto[lang] = []models.CaptionTrack{{LanguageCode: lang, Kind: models.TrackKindAuto, Source: "https://example.com/a/" + lang, Format: models.CaptionFormatVTT}}
	}
	return catalog
}

func mustPreference(t *testing.T, raw string) models.LanguagePreference {
	t.Helper()
	pref, err := models.ParseLanguagePreference(raw, "en,all")
	if err != nil {
		t.Fatalf("ParseLanguagePreference(%q): %v", raw, err)
	}
	return pref
}

func TestLanguageResolver_Resolve(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		pref     string
		manual   []string
		auto     []string
		wantLang string
		wantKind models.TrackKind
		wantRule string
	}{
		{"manual wins over auto for the same language", "en", []string{"en"}, []string{"en"}, "en", models.TrackKindManual, "exact-manual"},
		{"exact auto before manual variant", "en", []string{"en-US"}, []string{"en"}, "en", models.TrackKindAuto, "exact-auto"},
		{"case-insensitive exact match", "EN-us", []string{"en-US"}, nil, "en-US", models.TrackKindManual, "exact-manual"},
		{"earlier token wins over later exact manual", "de,en", []string{"en"}, []string{"de"}, "de", models.TrackKindAuto, "exact-auto"},
		{"bare subtag matches first sorted variant", "en", []string{"en-US", "en-GB"}, nil, "en-GB", models.TrackKindManual, "variant-manual"},
		{"variant manual before variant auto", "pt", []string{"pt-PT"}, []string{"pt-BR"}, "pt-PT", models.TrackKindManual, "variant-manual"},
		{"producer-specific variant", "en", nil, []string{"en-orig"}, "en-orig", models.TrackKindAuto, "variant-auto"},
		{"regional token does not match other region", "en-US,all", nil, []string{"en-GB", "de"}, "en-GB", models.TrackKindAuto, "wildcard-priority-auto"},
		{"auto only english falls through to wildcard", "fr,all", nil, []string{"en"}, "en", models.TrackKindAuto, "wildcard-priority-auto"},
		{"wildcard priority manual before auto", "nl", []string{"es"}, []string{"en"}, "es", models.TrackKindManual, "wildcard-priority-manual"},
		{"wildcard priority order", "nl", []string{"fr", "en-GB"}, nil, "en-GB", models.TrackKindManual, "wildcard-priority-manual"},
		{"wildcard priority auto beats first manual", "zz", []string{"nl", "da"}, []string{"en"}, "en", models.TrackKindAuto, "wildcard-priority-auto"},
		{"wildcard first manual when no priority language", "zz", []string{"nl", "da"}, []string{"sv"}, "da", models.TrackKindManual, "wildcard-first-manual"},
		{"wildcard first auto", "zz", nil, []string{"sv", "fi"}, "fi", models.TrackKindAuto, "wildcard-first-auto"},
		{"tokens after the wildcard are ignored", "all,nl", []string{"nl", "da"}, nil, "da", models.TrackKindManual, "wildcard-first-manual"},
	}

	resolver := NewLanguageResolver()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel, err := resolver.Resolve(mustPreference(t, tt.pref), catalogOf(tt.manual, tt.auto))
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if sel.Language != tt.wantLang || sel.Kind != tt.wantKind || sel.Rule != tt.wantRule {
				t.Errorf("Resolve() = (%s, %s, %s), want (%s, %s, %s)", sel.Language, sel.Kind, sel.Rule, tt.wantLang, tt.wantKind, tt.wantRule)
			}
			if sel.Track.Kind != sel.Kind || sel.Track.LanguageCode != sel.Language {
				t.Errorf("Selected track %+v does not match selection", sel.Track)
			}
		})
	}
}

func TestLanguageResolver_EmptyCatalog(t *testing.T) {
	t.Parallel()
	_, err := NewLanguageResolver().Resolve(mustPreference(t, "fr,de"), models.NewCaptionCatalog())

	var noCaptions *apperrors.ErrNoCaptionsAvailable
	if !errors.As(err, &noCaptions) {
		t.Fatalf("Expected ErrNoCaptionsAvailable, got %v", err)
	}
	if !reflect.DeepEqual(noCaptions.Tried, []string{"fr", "de", "all"}) {
		t.Errorf("Expected tried preference to be reported, got %v", noCaptions.Tried)
	}
	if len(noCaptions.Manual) != 0 || len(noCaptions.Auto) != 0 {
		t.Errorf("Expected empty language lists, got %v / %v", noCaptions.Manual, noCaptions.Auto)
	}
}

func TestLanguageResolver_NoWildcardReportsAvailableLanguages(t *testing.T) {
	t.Parallel()
	// A preference built without ParseLanguagePreference may lack the wildcard
	_, err := NewLanguageResolver().Resolve(models.LanguagePreference{"fr"}, catalogOf([]string{"en"}, []string{"de", "en"}))

	var noCaptions *apperrors.ErrNoCaptionsAvailable
	if !errors.As(err, &noCaptions) {
		t.Fatalf("Expected ErrNoCaptionsAvailable, got %v", err)
	}
	if !reflect.DeepEqual(noCaptions.Manual, []string{"en"}) || !reflect.DeepEqual(noCaptions.Auto, []string{"de", "en"}) {
		t.Errorf("Unexpected available languages %v / %v", noCaptions.Manual, noCaptions.Auto)
	}
}

// With the wildcard present, any non-empty catalog resolves
func TestLanguageResolver_WildcardAlwaysResolves(t *testing.T) {
	t.Parallel()
	pool := []string{"en", "en-US", "de", "fr-CA", "ja", "nl", "pt-BR", "zh-Hans", "en-orig", "xx"}
	rng := rand.New(rand.NewSource(42))
	resolver := NewLanguageResolver()

	for i := 0; i < 500; i++ {
		var manual, auto []string
		for _, lang := range pool {
			switch rng.Intn(4) {
			case 0:
				manual = append(manual, lang)
			case 1:
				auto = append(auto, lang)
			}
		}
		if len(manual) == 0 && len(auto) == 0 {
			auto = append(auto, pool[rng.Intn(len(pool))])
		}
		pref := mustPreference(t, pool[rng.Intn(len(pool))]+",zz")

		sel, err := resolver.Resolve(pref, catalogOf(manual, auto))
		if err != nil {
			t.Fatalf("Resolve(%v, manual=%v, auto=%v) failed: %v", pref, manual, auto, err)
		}
		if !sel.Track.HasSource() {
			t.Fatalf("Selected a track without a source: %+v", sel.Track)
		}
	}
}
