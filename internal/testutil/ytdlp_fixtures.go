package testutil

import (
	"encoding/json"
)

// TrackOptions is one caption track in a generated yt-dlp document
type TrackOptions struct {
	Ext  string
	URL  string
	Name string
}

// VideoOptions contains the fields of a generated yt-dlp -J document
type VideoOptions struct {
	ID                string
	Title             string
	Channel           string
	Uploader          string
	UploadDate        string // YYYYMMDD
	Duration          float64
	Subtitles         map[string][]TrackOptions
	AutomaticCaptions map[string][]TrackOptions
	AsPlaylist        bool // wrap the video as the first playlist entry
}

// GenerateYtDlpJSON renders the subset of the yt-dlp JSON output the inspector reads
func GenerateYtDlpJSON(opts VideoOptions) []byte {
	video := map[string]any{
		"id":                 opts.ID,
		"title":              opts.Title,
		"channel":            opts.Channel,
		"uploader":           opts.Uploader,
		"upload_date":        opts.UploadDate,
		"duration":           opts.Duration,
		"webpage_url":        "https://www.youtube.com/watch?v=" + opts.ID,
		"subtitles":          tracksJSON(opts.Subtitles),
		"automatic_captions": tracksJSON(opts.AutomaticCaptions),
	}

	doc := video
	if opts.AsPlaylist {
		doc = map[string]any{
			"_type":   "playlist",
			"id":      "PL" + opts.ID,
			"title":   "Playlist",
			"entries": []any{video},
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

func tracksJSON(tracks map[string][]TrackOptions) map[string][]map[string]string {
	out := make(map[string][]map[string]string, len(tracks))
	for lang, list := range tracks {
		for _, track := range list {
			entry := map[string]string{"ext": track.Ext, "url": track.URL}
			if track.Name != "" {
				entry["name"] = track.Name
			}
			out[lang] = append(out[lang], entry)
		}
	}
	return out
}
