package services

import (
	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// Selection is the caption track chosen for a request
type Selection struct {
	Track    models.CaptionTrack
	Language string // catalog key, with the producer's spelling
	Kind     models.TrackKind
	Rule     string // name of the resolver rule that matched
}

// LanguageResolver picks one caption track from a catalog for a language preference
type LanguageResolver interface {
	// Resolve returns the best track, or ErrNoCaptionsAvailable when the catalog has
	// nothing matching. With the wildcard in the preference that only happens for an
	// empty catalog.
	Resolve(pref models.LanguagePreference, catalog *models.CaptionCatalog) (*Selection, error)
}
