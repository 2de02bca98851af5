package client

import (
	"regexp"
	"strings"
)

var (
	// videoIDInURLRegex finds the identifier in watch (?v=), youtu.be, shorts, embed and live URLs
	videoIDInURLRegex = regexp.MustCompile(`(?:[?&]v=|youtu\.be/|/shorts/|/embed/|/live/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)
	bareVideoIDRegex  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11-character video identifier contained in ref, accepting
// watch-page URLs, youtu.be short links, shorts paths and bare identifiers.
func ExtractVideoID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if bareVideoIDRegex.MatchString(ref) {
		return ref, true
	}
	if match := videoIDInURLRegex.FindStringSubmatch(ref); match != nil {
		return match[1], true
	}
	return "", false
}

// WatchURL builds the canonical watch-page URL for a video identifier
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ResolveVideoTarget turns a caller-supplied reference into what the metadata source is
// asked for. Recognized identifiers become canonical watch URLs; anything else is passed
// through unmodified for the metadata source to accept or reject.
func ResolveVideoTarget(ref string) (target string, videoID string) {
	if id, ok := ExtractVideoID(ref); ok {
		return WatchURL(id), id
	}
	return strings.TrimSpace(ref), ""
}
