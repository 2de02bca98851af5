package models

import (
	"sort"
	"strings"
	"time"
)

// TrackKind distinguishes creator-authored captions from machine-generated ones
type TrackKind int

const (
	TrackKindManual TrackKind = iota
	TrackKindAuto
)

// String returns the string representation of the kind
func (k TrackKind) String() string {
	if k == TrackKindAuto {
		return "auto"
	}
	return "manual"
}

// MarshalJSON implements json.Marshaler interface
func (k TrackKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// CaptionFormat is a hint describing how to parse a raw caption payload
type CaptionFormat int

const (
	CaptionFormatUnknown CaptionFormat = iota
	CaptionFormatVTT
	CaptionFormatTTML
)

// String returns the string representation of the format
func (f CaptionFormat) String() string {
	switch f {
	case CaptionFormatVTT:
		return "vtt"
	case CaptionFormatTTML:
		return "ttml"
	default:
		return "unknown"
	}
}

// ParseCaptionFormat maps a producer-reported extension to a CaptionFormat
func ParseCaptionFormat(ext string) CaptionFormat {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case "vtt", "webvtt":
		return CaptionFormatVTT
	case "ttml", "xml", "srv1", "srv2", "srv3", "dfxp":
		return CaptionFormatTTML
	default:
		return CaptionFormatUnknown
	}
}

// CaptionTrack is one retrievable caption stream
type CaptionTrack struct {
	LanguageCode string        `json:"languageCode"`
	Kind         TrackKind     `json:"kind"`
	Source       string        `json:"-"` // URL of the raw payload
	Format       CaptionFormat `json:"-"`
	Name         string        `json:"name,omitempty"`
}

// HasSource reports whether the track can actually be fetched
func (t CaptionTrack) HasSource() bool {
	return strings.TrimSpace(t.Source) != ""
}

// CaptionCatalog holds the fetchable caption tracks of one video, keyed by language code
type CaptionCatalog struct {
	Manual map[string][]CaptionTrack
	Auto   map[string][]CaptionTrack
}

// NewCaptionCatalog creates an empty catalog
func NewCaptionCatalog() *CaptionCatalog {
	return &CaptionCatalog{
		Manual: make(map[string][]CaptionTrack),
		Auto:   make(map[string][]CaptionTrack),
	}
}

// Tracks returns the language map for the given kind
func (c *CaptionCatalog) Tracks(kind TrackKind) map[string][]CaptionTrack {
	if kind == TrackKindAuto {
		return c.Auto
	}
	return c.Manual
}

// Languages returns the sorted language codes available for the given kind
func (c *CaptionCatalog) Languages(kind TrackKind) []string {
	tracks := c.Tracks(kind)
	langs := make([]string, 0, len(tracks))
	for lang := range tracks {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Lookup finds the language key matching code case-insensitively and returns it with its tracks
func (c *CaptionCatalog) Lookup(kind TrackKind, code string) (string, []CaptionTrack, bool) {
	tracks := c.Tracks(kind)
	if list, ok := tracks[code]; ok {
		return code, list, true
	}
	for _, lang := range c.Languages(kind) {
		if strings.EqualFold(lang, code) {
			return lang, tracks[lang], true
		}
	}
	return "", nil, false
}

// IsEmpty reports whether the catalog has no track at all
func (c *CaptionCatalog) IsEmpty() bool {
	return len(c.Manual) == 0 && len(c.Auto) == 0
}

// Cue is a single timed caption line
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}
