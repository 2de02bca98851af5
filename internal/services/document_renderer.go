package services

import "github.com/Belphemur/SuperTranscripts/internal/models"

// DocumentRenderer renders a transcript into a printable document
type DocumentRenderer interface {
	// Render returns the document bytes. Failures are reported as ErrArtifactRenderFailed.
	Render(metadata models.VideoMetadata, text string) ([]byte, error)
}
