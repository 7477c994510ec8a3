package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/vinayprograms/resumerag/errors"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// extractDOCX reads word/document.xml and writes each paragraph's text
// followed by a newline.
func extractDOCX(filename string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Extraction(filename, "cannot open docx", errors.WithCause(err))
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.Extraction(filename, "docx has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", errors.Extraction(filename, "cannot read docx body", errors.WithCause(err))
	}
	defer rc.Close()

	text, err := paragraphs(rc)
	if err != nil {
		return "", errors.Extraction(filename, "malformed docx body", errors.WithCause(err))
	}
	return text, nil
}

// paragraphs walks the WordprocessingML token stream. Text runs (w:t) are
// copied, w:tab becomes a tab, w:br and w:cr become newlines and the end of
// every w:p emits a newline.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
}
