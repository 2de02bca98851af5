package metadata

import "context"

// Provider describes a video: its metadata plus the caption tracks the producer reports
type Provider interface {
	Describe(ctx context.Context, target string) (*VideoInfo, error)
}

// VideoInfo is the subset of the yt-dlp info JSON the service relies on
type VideoInfo struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Channel           string                 `json:"channel"`
	Uploader          string                 `json:"uploader"`
	UploadDate        string                 `json:"upload_date"` // YYYYMMDD
	Duration          float64                `json:"duration"`
	WebpageURL        string                 `json:"webpage_url"`
	Subtitles         map[string][]TrackInfo `json:"subtitles"`
	AutomaticCaptions map[string][]TrackInfo `json:"automatic_captions"`
	Entries           []*VideoInfo           `json:"entries"`
}

// TrackInfo is one downloadable rendition of a caption language
type TrackInfo struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}
