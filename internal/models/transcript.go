package models

import "time"

// TranscriptRequest represents a request to produce a transcript
type TranscriptRequest struct {
	VideoRef       string // URL or bare video identifier
	Languages      string // Comma-separated preference list, empty = default
	KeepTimestamps bool
}

// TranscriptArtifactSet is the immutable output of one successful caption fetch
type TranscriptArtifactSet struct {
	Metadata VideoMetadata
	Language string
	Kind     TrackKind
	SRT      []byte // canonical subtitle format
	Text     string
	Document []byte // optional rendered document, nil when unavailable
}

// Artifact is a downloadable file held by the artifact store
type Artifact struct {
	Token     string
	Content   []byte
	MimeType  string
	Filename  string
	ExpiresAt time.Time
}

// TranscriptResult is the success payload returned to callers
type TranscriptResult struct {
	OK               bool   `json:"ok"`
	VideoID          string `json:"video_id"`
	Title            string `json:"title"`
	Channel          string `json:"channel"`
	PublishedAt      string `json:"published_at"`
	DurationSeconds  int    `json:"duration_seconds"`
	CaptionsLang     string `json:"captions_lang"`
	CaptionsKind     string `json:"captions_kind"`
	PreviewText      string `json:"preview_text"`
	Truncated        bool   `json:"truncated"`
	TxtURL           string `json:"txt_url"`
	SrtURL           string `json:"srt_url"`
	PdfURL           string `json:"pdf_url"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}
