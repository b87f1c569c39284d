package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx assembles a minimal DOCX archive around the given document.xml body.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	doc := buildDocx(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Senior Engineer with 5 years experience</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	text, err := Parse("resume.docx", TypeDOCX, doc)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Senior Engineer with 5 years experience")
}

func TestParseDocxByExtensionFallback(t *testing.T) {
	doc := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)

	// Mail clients often declare attachments as octet-stream.
	text, err := Parse("cv.docx", "application/octet-stream", doc)
	require.NoError(t, err)
	assert.Contains(t, text, "hello")
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := Parse("photo.png", "image/png", []byte{0x89, 0x50})

	var unsupported *UnsupportedTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "image/png", unsupported.ContentType)
}

func TestParseCorruptPDF(t *testing.T) {
	_, err := Parse("broken.pdf", TypePDF, []byte("definitely not a pdf"))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "broken.pdf", parseErr.Filename)
}

func TestParseCorruptDocx(t *testing.T) {
	_, err := Parse("broken.docx", TypeDOCX, []byte("not a zip archive"))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestParseBinaryDocFails(t *testing.T) {
	// Legacy OLE .doc files are not ZIP archives; they are rejected rather
	// than half-parsed.
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, []byte("binary word file")...)

	_, err := Parse("cv.doc", TypeDOC, ole)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "cv.doc", parseErr.Filename)
}

func TestParseDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Parse("odd.docx", TypeDOCX, buf.Bytes())
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestIsResumeFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"resume.pdf", true},
		{"Resume.PDF", true},
		{"cv.doc", true},
		{"cv.docx", true},
		{"photo.jpg", false},
		{"archive.zip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, IsResumeFilename(tt.filename))
		})
	}
}

func TestContentTypeWithParameters(t *testing.T) {
	doc := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>params</w:t></w:r></w:p></w:body></w:document>`)

	text, err := Parse("cv.docx", TypeDOCX+"; name=cv.docx", doc)
	require.NoError(t, err)
	assert.Contains(t, text, "params")
}
