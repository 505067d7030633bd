package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pdfHeader is enough for http.DetectContentType to classify the content as
// application/pdf.
var pdfHeader = []byte("%PDF-1.4\n%fake document body for tests\n")

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSave_StoresPDFAndReturnsWebPath(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir)

	fh := makeFileHeader(t, "my passport (scan).pdf", pdfHeader)

	path, err := svc.Save("idDocument", fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/verification/"), "got %q", path)
	assert.True(t, strings.HasSuffix(path, ".pdf"), "got %q", path)
	assert.NotContains(t, path, " ")
	assert.NotContains(t, path, "(")

	// File must exist on disk under the configured root.
	onDisk := filepath.Join(dir, "verification", filepath.Base(path))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, pdfHeader, data)
}

func TestSave_AcceptsPNG(t *testing.T) {
	svc := NewService(t.TempDir())

	fh := makeFileHeader(t, "signature.png", pngHeader)

	path, err := svc.Save("signature", fh)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))
}

func TestSave_RejectsDisallowedMime(t *testing.T) {
	svc := NewService(t.TempDir())

	fh := makeFileHeader(t, "notes.txt", []byte("just some plain text, not a document"))

	_, err := svc.Save("idDocument", fh)
	assert.ErrorIs(t, err, ErrInvalidMimeType)
}

func TestSave_RejectsEmptyFile(t *testing.T) {
	svc := NewService(t.TempDir())

	fh := makeFileHeader(t, "empty.pdf", nil)

	_, err := svc.Save("idDocument", fh)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	svc := NewService(t.TempDir())

	big := make([]byte, MaxFileSize+1)
	copy(big, pdfHeader)
	fh := makeFileHeader(t, "huge.pdf", big)

	_, err := svc.Save("idDocument", fh)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSave_FallsBackToFieldNameWhenFilenameUnusable(t *testing.T) {
	svc := NewService(t.TempDir())

	fh := makeFileHeader(t, "???.pdf", pdfHeader)

	path, err := svc.Save("passportPhoto", fh)
	require.NoError(t, err)
	assert.Contains(t, path, "passportPhoto")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_scan", sanitizeName("my scan.pdf"))
	assert.Equal(t, "file", sanitizeName("....pdf"))
	assert.Equal(t, "file", sanitizeName(""))
	assert.Equal(t, "a-b_c", sanitizeName("a-b c.png"))
	assert.LessOrEqual(t, len(sanitizeName(strings.Repeat("x", 100))), 40)
}
