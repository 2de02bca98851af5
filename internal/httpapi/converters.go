package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// transcriptRequestBody accepts the current field names and the legacy ones
type transcriptRequestBody struct {
	VideoRef           string `json:"videoRef"`
	LanguagePreference string `json:"languagePreference"`
	KeepTimestamps     *bool  `json:"keepTimestamps"`

	URLOrID              string `json:"url_or_id"`
	Langs                string `json:"langs"`
	LegacyKeepTimestamps *bool  `json:"keep_timestamps"`
}

func (b transcriptRequestBody) toModel() models.TranscriptRequest {
	req := models.TranscriptRequest{
		VideoRef:  firstNonEmpty(b.VideoRef, b.URLOrID),
		Languages: firstNonEmpty(b.LanguagePreference, b.Langs),
	}
	switch {
	case b.KeepTimestamps != nil:
		req.KeepTimestamps = *b.KeepTimestamps
	case b.LegacyKeepTimestamps != nil:
		req.KeepTimestamps = *b.LegacyKeepTimestamps
	}
	return req
}

type availableLanguages struct {
	Manual []string `json:"manual"`
	Auto   []string `json:"auto"`
}

type errorDetail struct {
	Code               string              `json:"code"`
	Message            string              `json:"message"`
	VideoID            string              `json:"video_id,omitempty"`
	Language           string              `json:"language,omitempty"`
	Kind               string              `json:"kind,omitempty"`
	AvailableLanguages *availableLanguages `json:"available_languages,omitempty"`
	TriedLanguages     []string            `json:"tried_languages,omitempty"`
}

type errorBody struct {
	OK    bool        `json:"ok"`
	Error errorDetail `json:"error"`
}

// errorResponse converts an error into its code and response body.
// Upstream failures are described without their cause, which may hold subprocess
// output or provider URLs; internal errors never expose their message.
func errorResponse(err error) (string, errorBody) {
	code := apperrors.Code(err)
	detail := errorDetail{Code: code, Message: err.Error()}

	var noCaptions *apperrors.ErrNoCaptionsAvailable
	var fetchErr *apperrors.ErrCaptionFetchFailed
	var metaErr *apperrors.ErrMetadataUnavailable
	switch {
	case errors.As(err, &noCaptions):
		detail.VideoID = noCaptions.VideoID
		detail.AvailableLanguages = &availableLanguages{
			Manual: nonNil(noCaptions.Manual),
			Auto:   nonNil(noCaptions.Auto),
		}
		detail.TriedLanguages = nonNil(noCaptions.Tried)
	case errors.As(err, &fetchErr):
		detail.VideoID = fetchErr.VideoID
		detail.Language = fetchErr.Language
		detail.Kind = fetchErr.Kind
		detail.Message = fmt.Sprintf("failed to fetch %s captions %q", fetchErr.Kind, fetchErr.Language)
	case errors.As(err, &metaErr):
		detail.VideoID = metaErr.VideoID
		detail.TriedLanguages = metaErr.Tried
		detail.Message = "video metadata could not be retrieved"
	case code == apperrors.CodeInternal:
		detail.Message = "internal error"
	}

	return code, errorBody{OK: false, Error: detail}
}

// httpStatusFor maps an error code to the status used by the status failure policy
func httpStatusFor(code string) int {
	switch code {
	case apperrors.CodeValidationFailed:
		return http.StatusBadRequest
	case apperrors.CodeNoCaptionsAvailable, apperrors.CodeTokenNotFound:
		return http.StatusNotFound
	case apperrors.CodeMetadataUnavailable, apperrors.CodeCaptionFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
