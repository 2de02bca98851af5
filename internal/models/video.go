package models

// VideoMetadata describes the video a transcript belongs to
type VideoMetadata struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	PublishedAt     string `json:"publishedAt"` // ISO date (YYYY-MM-DD) when known
	DurationSeconds int    `json:"durationSeconds"`
	WebpageURL      string `json:"webpageUrl,omitempty"`
}

// Inspection is the result of a single metadata lookup: video metadata plus the
// filtered caption catalog
type Inspection struct {
	Metadata VideoMetadata
	Catalog  *CaptionCatalog
}
