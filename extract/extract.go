// Package extract pulls plain text out of uploaded resume documents.
//
// Supported formats are chosen by file extension, case-insensitively:
// PDF, Word (DOCX) and UTF-8 plain text. Anything else is rejected with an
// UNSUPPORTED error so the caller can report it per file.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/vinayprograms/resumerag/errors"
)

// Format identifies a supported document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

// Detect returns the format implied by filename's extension.
func Detect(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDOCX, true
	case ".txt":
		return FormatText, true
	}
	return "", false
}

// Extract returns the plain text of the document. Errors carry the filename
// in their metadata.
func Extract(filename string, data []byte) (text string, err error) {
	format, ok := Detect(filename)
	if !ok {
		return "", errors.Unsupported(filename)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.Extraction(filename, "parser panic", errors.WithCause(errors.RecoverPanic(r)))
		}
	}()

	switch format {
	case FormatPDF:
		return extractPDF(filename, data)
	case FormatDOCX:
		return extractDOCX(filename, data)
	default:
		return extractText(filename, data)
	}
}
