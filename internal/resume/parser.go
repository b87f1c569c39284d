// Package resume extracts plain text from candidate resume documents.
package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MIME types accepted by the parser.
const (
	TypePDF  = "application/pdf"
	TypeDOC  = "application/msword"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// IsResumeFilename reports whether a filename looks like a resume document.
// The email monitor uses this to filter attachments before parsing.
func IsResumeFilename(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".pdf") ||
		strings.HasSuffix(lower, ".doc") ||
		strings.HasSuffix(lower, ".docx")
}

// Parse extracts plain text from a resume document buffer. The declared
// content type wins; the filename extension is the fallback when the sender's
// mail client declared a generic type like application/octet-stream.
func Parse(filename, contentType string, data []byte) (string, error) {
	switch normalizeType(filename, contentType) {
	case TypePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", &ParseError{Filename: filename, Cause: err}
		}
		return text, nil
	case TypeDOC, TypeDOCX:
		text, err := extractWord(data)
		if err != nil {
			return "", &ParseError{Filename: filename, Cause: err}
		}
		return text, nil
	default:
		return "", &UnsupportedTypeError{ContentType: contentType, Filename: filename}
	}
}

func normalizeType(filename, contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	switch ct {
	case TypePDF, TypeDOC, TypeDOCX:
		return ct
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return TypePDF
	case ".doc":
		return TypeDOC
	case ".docx":
		return TypeDOCX
	}
	return ct
}

// extractPDF decodes the document page by page, joining the text items of a
// page with spaces and pages with newlines.
func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		var items []string
		for _, t := range page.Content().Text {
			items = append(items, t.S)
		}
		sb.WriteString(strings.Join(items, " "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var xmlTags = regexp.MustCompile(`<[^>]+>`)

// extractWord pulls raw text out of a Word document. DOCX files are ZIP
// archives holding word/document.xml; stripping the markup after mapping
// paragraph ends to newlines recovers the readable text.
func extractWord(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a Word document archive: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(docXML) == 0 {
		return "", errors.New("no document.xml found in archive")
	}

	doc := string(docXML)
	doc = strings.ReplaceAll(doc, "</w:p>", "\n")
	doc = strings.ReplaceAll(doc, "<w:tab/>", "\t")
	doc = xmlTags.ReplaceAllString(doc, " ")
	return collapseSpaces(doc), nil
}

var (
	spaceRuns   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRuns = regexp.MustCompile(`\n+`)
)

func collapseSpaces(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
