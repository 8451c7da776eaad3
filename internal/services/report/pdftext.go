package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxExtractChars bounds extracted text.
const maxExtractChars = 50000

// ExtractPDFText returns the plain text of every page, one page per line
// block. Pages that fail to decode are skipped.
func ExtractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxExtractChars {
			break
		}
	}

	result := sb.String()
	if len(result) > maxExtractChars {
		result = result[:maxExtractChars]
	}
	return result, nil
}
