package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize bounds a single uploaded document.
	MaxFileSize = 5 * 1024 * 1024 // 5 MB

	// MaxPersonalFiles and MaxCorporateFiles bound the multipart batch size
	// per submission. The corporate ceiling accommodates N signatories with
	// two documents each plus the company-level documents.
	MaxPersonalFiles  = 5
	MaxCorporateFiles = 30

	DefaultBaseDir = "./uploads"
	WebPathPrefix  = "/uploads/verification"
)

// AllowedMimeTypes is the allow-list for verification documents.
var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// Service persists verification documents to local disk and hands back
// stable root-relative web paths of the form
// /uploads/verification/<timestamp>_<sanitized-name><ext>.
type Service struct {
	baseDir string // absolute or relative path to the uploads root
}

func NewService(baseDir string) *Service {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return &Service{baseDir: baseDir}
}

// Save validates and stores one uploaded document. The returned path is a
// web path: single leading slash, forward slashes only, independent of where
// the uploads root lives on disk.
func (s *Service) Save(fieldName string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from the first 512 bytes; the declared Content-Type
	// header is client-controlled and not trusted.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := http.DetectContentType(buf[:n])
	mimeType = strings.Split(mimeType, ";")[0]

	if !AllowedMimeTypes[mimeType] {
		return "", ErrInvalidMimeType
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	dir := filepath.Join(s.baseDir, "verification")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	name := sanitizeName(fileHeader.Filename)
	if name == "file" && fieldName != "" {
		name = sanitizeName(fieldName)
	}
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), name, ext)

	absPath := filepath.Join(dir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return WebPathPrefix + "/" + filename, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || strings.Trim(name, "_") == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
