package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/vinayprograms/resumerag/errors"
)

// extractPDF concatenates the plain text of every page. Pages whose text
// cannot be read contribute nothing.
func extractPDF(filename string, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Extraction(filename, "cannot open pdf", errors.WithCause(err))
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		sb.WriteString(pageText(r.Page(i)))
	}
	return sb.String(), nil
}

// pageText isolates a single page so a malformed content stream only loses
// that page.
func pageText(p pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
