package services

import (
	"bytes"
	"strings"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFontFamily  = "Arial"
	pdfBodySize    = 12
	pdfHeaderSize  = 14
	pdfLineHeight  = 6
	pdfBottomSpace = 12
)

// PDFRenderer implements DocumentRenderer with the fpdf core fonts.
// Core fonts are cp1252, runes outside it are substituted by the translator.
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDF document renderer
func NewPDFRenderer() DocumentRenderer {
	return &PDFRenderer{}
}

// Render implements DocumentRenderer
func (r *PDFRenderer) Render(metadata models.VideoMetadata, text string) (data []byte, err error) {
	// fpdf panics on some malformed inputs instead of recording an error
	defer func() {
		if rec := recover(); rec != nil {
			data = nil
			err = &apperrors.ErrArtifactRenderFailed{Artifact: "pdf", Cause: panicError{value: rec}}
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pdfBottomSpace)
	pdf.SetTitle(metadata.Title, true)
	pdf.SetAuthor(metadata.Channel, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if header := documentHeader(metadata); len(header) > 0 {
		pdf.SetFont(pdfFontFamily, "B", pdfHeaderSize)
		pdf.MultiCell(0, pdfLineHeight+1, tr(header[0]), "", "L", false)
		pdf.SetFont(pdfFontFamily, "", pdfBodySize-2)
		for _, line := range header[1:] {
			pdf.MultiCell(0, pdfLineHeight, tr(line), "", "L", false)
		}
		pdf.Ln(pdfLineHeight)
	}

	pdf.SetFont(pdfFontFamily, "", pdfBodySize)
	pdf.MultiCell(0, pdfLineHeight, tr(text), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("videoId", metadata.ID).Msg("PDF rendering failed")
		return nil, &apperrors.ErrArtifactRenderFailed{Artifact: "pdf", Cause: err}
	}
	return buf.Bytes(), nil
}

// documentHeader returns the title line followed by the non-empty detail lines
func documentHeader(metadata models.VideoMetadata) []string {
	title := strings.TrimSpace(metadata.Title)
	if title == "" {
		title = metadata.ID
	}
	if title == "" {
		return nil
	}
	lines := []string{title}
	for _, detail := range []string{metadata.Channel, metadata.WebpageURL} {
		if detail = strings.TrimSpace(detail); detail != "" {
			lines = append(lines, detail)
		}
	}
	return lines
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	if err, ok := p.value.(error); ok {
		return "renderer panic: " + err.Error()
	}
	if s, ok := p.value.(string); ok {
		return "renderer panic: " + s
	}
	return "renderer panic"
}
