// Package ingest extracts plain text from uploaded study material.
package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts all text from a PDF given its raw bytes. Pages are joined with
// per-page headers so the model can reference locations in the material.
func PDF(fileBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i, text))
		}
	}

	if len(pages) == 0 {
		return "No text found in PDF.", nil
	}
	return strings.Join(pages, "\n\n"), nil
}
