package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor pulls plain text out of an uploaded document. It either
// returns usable text or an explicit error; empty output is never treated
// as success.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// PDFExtractor extracts text from PDF bytes page by page.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(data []byte) (text string, err error) {
	// The parser panics on some malformed files; contain that here so a bad
	// upload cannot take down the pipeline goroutine.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Reason: fmt.Sprintf("malformed PDF: %v", r)}
		}
	}()

	if len(data) == 0 {
		return "", &ExtractionError{Reason: "empty file"}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Reason: "failed to open PDF", Err: err}
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		p := reader.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{
				Reason: fmt.Sprintf("failed to extract text from page %d", pageIndex),
				Err:    err,
			}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text = sb.String()
	if strings.TrimSpace(text) == "" {
		// Scanned-image-only or blank documents end up here. Fail loudly
		// instead of sending an empty contract to the model.
		return "", &ExtractionError{Reason: "no text extracted from PDF"}
	}

	return text, nil
}
