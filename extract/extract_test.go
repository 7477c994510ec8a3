package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/vinayprograms/resumerag/errors"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// pdfPage is one page of a generated PDF. A non-empty filter is written as
// the content stream's /Filter.
type pdfPage struct {
	content string
	filter  string
}

// buildPDF writes a minimal uncompressed PDF with a classic xref table.
func buildPDF(pages ...pdfPage) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, p := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		dict := fmt.Sprintf("/Length %d", len(p.content))
		if p.filter != "" {
			dict += " /Filter /" + p.filter
		}
		obj(fmt.Sprintf("<< %s >>\nstream\n%s\nendstream", dict, p.content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func showText(s string) string {
	return "BT /F1 12 Tf 72 720 Td (" + s + ") Tj ET"
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want Format
		ok   bool
	}{
		{"cv.pdf", FormatPDF, true},
		{"CV.PDF", FormatPDF, true},
		{"resume.Docx", FormatDOCX, true},
		{"notes.txt", FormatText, true},
		{"legacy.doc", "", false},
		{"noext", "", false},
		{"image.png", "", false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Detect(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtract_Text(t *testing.T) {
	text, err := Extract("a.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_TextDropsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("résumé")...)
	text, err := Extract("a.TXT", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "résumé" {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_TextInvalidUTF8(t *testing.T) {
	_, err := Extract("bad.txt", []byte{0xff, 0xfe, 0x00})
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Fatalf("expected EXTRACTION_FAILED, got %v", err)
	}
	if errors.GetMetadata(err)["filename"] != "bad.txt" {
		t.Errorf("metadata = %v", errors.GetMetadata(err))
	}
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := Extract("image.png", []byte{1, 2, 3})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("expected UNSUPPORTED, got %v", err)
	}
	if errors.As(err).Message() != "unsupported file type" {
		t.Errorf("message = %q", errors.As(err).Message())
	}
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">Go </w:t></w:r><w:r><w:t>engineer</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`+
			`<w:p/>`)

	text, err := Extract("jane.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Jane Doe\nGo engineer\na\tb\nc\n\n"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestExtract_DOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("other.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	_, err := Extract("empty.docx", buf.Bytes())
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestExtract_DOCXNotZip(t *testing.T) {
	_, err := Extract("fake.docx", []byte("not a zip archive"))
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := Extract("broken.pdf", []byte("%PDF-1.4 garbage"))
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestExtract_PDF(t *testing.T) {
	data := buildPDF(
		pdfPage{content: showText("Jane Doe")},
		pdfPage{content: showText("Go engineer")},
	)

	text, err := Extract("cv.PDF", data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Jane DoeGo engineer" {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_PDFUnreadablePage(t *testing.T) {
	data := buildPDF(
		pdfPage{content: showText("Jane Doe")},
		pdfPage{content: showText("lost"), filter: "NoSuchDecode"},
		pdfPage{content: showText("Go engineer")},
	)

	text, err := Extract("cv.pdf", data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Jane DoeGo engineer" {
		t.Errorf("text = %q", text)
	}
}
