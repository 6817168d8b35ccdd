// Package extract pulls plain text out of uploaded attachments.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// Text returns the readable text of an upload. Plain text files are returned
// as-is, PDFs are extracted, anything else yields "". Extraction failures are
// reported inline as placeholder text, never as an error.
func Text(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return string(data)
	case ".pdf":
		text, err := PDFText(data)
		if err != nil {
			return FailurePlaceholder(filename)
		}
		return text
	default:
		return ""
	}
}

// FailurePlaceholder is substituted for text that could not be extracted.
func FailurePlaceholder(filename string) string {
	return fmt.Sprintf("[Could not extract text from %s]", filename)
}

// PDFText extracts the plain text layer of a PDF document.
func PDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("pdf parse panic: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "open pdf")
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "read pdf text")
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", errors.Wrap(err, "read pdf text")
	}
	return string(out), nil
}
