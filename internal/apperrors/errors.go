package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMetadataUnavailable is returned when the video metadata source is unreachable
// or returned data that cannot be used. VideoID and Tried are filled in once the
// request has been parsed.
type ErrMetadataUnavailable struct {
	VideoRef string
	VideoID  string
	Tried    []string
	Cause    error
}

// Error implements the error interface.
func (e *ErrMetadataUnavailable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("metadata unavailable for %q: %v", e.VideoRef, e.Cause)
	}
	return fmt.Sprintf("metadata unavailable for %q", e.VideoRef)
}

// Unwrap returns the underlying cause.
func (e *ErrMetadataUnavailable) Unwrap() error {
	return e.Cause
}

// Is allows for error checking with errors.Is().
func (e *ErrMetadataUnavailable) Is(target error) bool {
	_, ok := target.(*ErrMetadataUnavailable)
	return ok
}

// NewMetadataUnavailableError creates a new ErrMetadataUnavailable.
func NewMetadataUnavailableError(videoRef string, cause error) *ErrMetadataUnavailable {
	return &ErrMetadataUnavailable{VideoRef: videoRef, Cause: cause}
}

// ErrNoCaptionsAvailable is returned when no caption track could be selected.
// It carries the filtered languages that were available and the preference that was tried.
type ErrNoCaptionsAvailable struct {
	VideoID string
	Manual  []string
	Auto    []string
	Tried   []string
}

// Error implements the error interface.
func (e *ErrNoCaptionsAvailable) Error() string {
	return fmt.Sprintf("no captions available for video %q (tried [%s], manual [%s], auto [%s])",
		e.VideoID,
		strings.Join(e.Tried, ","),
		strings.Join(e.Manual, ","),
		strings.Join(e.Auto, ","),
	)
}

// Is allows for error checking with errors.Is().
func (e *ErrNoCaptionsAvailable) Is(target error) bool {
	_, ok := target.(*ErrNoCaptionsAvailable)
	return ok
}

// ErrCaptionFetchFailed is returned when the selected caption track could not be
// retrieved or did not contain any usable cue.
type ErrCaptionFetchFailed struct {
	VideoID  string
	Language string
	Kind     string
	Source   string
	Cause    error
}

// Error implements the error interface.
func (e *ErrCaptionFetchFailed) Error() string {
	msg := fmt.Sprintf("failed to fetch %s captions %q for video %q", e.Kind, e.Language, e.VideoID)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ErrCaptionFetchFailed) Unwrap() error {
	return e.Cause
}

// Is allows for error checking with errors.Is().
func (e *ErrCaptionFetchFailed) Is(target error) bool {
	_, ok := target.(*ErrCaptionFetchFailed)
	return ok
}

// ErrArtifactRenderFailed is returned by optional renderers. It is never surfaced
// as a request failure.
type ErrArtifactRenderFailed struct {
	Artifact string
	Cause    error
}

// Error implements the error interface.
func (e *ErrArtifactRenderFailed) Error() string {
	return fmt.Sprintf("failed to render %s artifact: %v", e.Artifact, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ErrArtifactRenderFailed) Unwrap() error {
	return e.Cause
}

// Is allows for error checking with errors.Is().
func (e *ErrArtifactRenderFailed) Is(target error) bool {
	_, ok := target.(*ErrArtifactRenderFailed)
	return ok
}

// ErrTokenNotFound is returned when a file token is unknown or expired.
type ErrTokenNotFound struct {
	Token string
}

// Error implements the error interface.
func (e *ErrTokenNotFound) Error() string {
	return "file token not found or expired"
}

// Is allows for error checking with errors.Is().
func (e *ErrTokenNotFound) Is(target error) bool {
	_, ok := target.(*ErrTokenNotFound)
	return ok
}

// ErrValidation represents malformed caller input.
type ErrValidation struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrValidation) Is(target error) bool {
	_, ok := target.(*ErrValidation)
	return ok
}

// NewValidationError creates a new ErrValidation.
func NewValidationError(field, reason string) *ErrValidation {
	return &ErrValidation{Field: field, Reason: reason}
}

// Error codes reported to API callers.
const (
	CodeValidationFailed    = "validation_failed"
	CodeNoCaptionsAvailable = "no_captions_available"
	CodeMetadataUnavailable = "metadata_unavailable"
	CodeCaptionFetchFailed  = "caption_fetch_failed"
	CodeTokenNotFound       = "token_not_found"
	CodeInternal            = "internal_error"
)

// Code maps an error to its API error code. Unknown errors are internal errors.
func Code(err error) string {
	switch {
	case errors.Is(err, &ErrValidation{}):
		return CodeValidationFailed
	case errors.Is(err, &ErrNoCaptionsAvailable{}):
		return CodeNoCaptionsAvailable
	case errors.Is(err, &ErrMetadataUnavailable{}):
		return CodeMetadataUnavailable
	case errors.Is(err, &ErrCaptionFetchFailed{}):
		return CodeCaptionFetchFailed
	case errors.Is(err, &ErrTokenNotFound{}):
		return CodeTokenNotFound
	default:
		return CodeInternal
	}
}
