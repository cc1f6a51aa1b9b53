package usecase

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ymdk/docrenamer/internal/core/domain"
)

// allowedMIMETypes is the PDF + raster image allow-list.
var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/bmp":       true,
	"image/tiff":      true,
}

var extensionMIMEs = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

const dataURLPrefix = "data:"

// DecodeDataURL parses a "data:<mime>;base64,<payload>" string into its
// MIME type and raw bytes.
func DecodeDataURL(data string) (string, []byte, error) {
	if !strings.HasPrefix(data, dataURLPrefix) {
		return "", nil, domain.WrapError(domain.ErrValidation, "decode payload",
			errors.New("expected a data: URL with base64 payload"))
	}

	rest := data[len(dataURLPrefix):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, domain.WrapError(domain.ErrValidation, "decode payload",
			errors.New("expected ';base64,' marker"))
	}

	mimeType := strings.ToLower(strings.TrimSpace(rest[:sep]))
	raw, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, domain.WrapError(domain.ErrValidation, "decode payload", err)
	}
	if len(raw) == 0 {
		return "", nil, domain.WrapError(domain.ErrValidation, "decode payload",
			errors.New("empty file body"))
	}
	return mimeType, raw, nil
}

// ResolveMIME fills a missing or generic content type from the filename
// extension, so multipart clients that send application/octet-stream still
// pass the allow-list when the extension is recognizable.
func ResolveMIME(filename, mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType != "" && mimeType != "application/octet-stream" {
		// Strip parameters such as "; charset=binary".
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}
		return mimeType
	}
	if inferred, ok := extensionMIMEs[strings.ToLower(filepath.Ext(filename))]; ok {
		return inferred
	}
	return mimeType
}

func validateFile(filename, mimeType string, size, maxSize int64) error {
	if strings.TrimSpace(filename) == "" {
		return domain.WrapError(domain.ErrValidation, "validate file", errors.New("filename is empty"))
	}
	if !allowedMIMETypes[mimeType] {
		return domain.WrapError(domain.ErrValidation, "validate file",
			fmt.Errorf("unsupported file type %q (PDF and raster images only)", mimeType))
	}
	if size > maxSize {
		return domain.WrapError(domain.ErrTooLarge, "validate file",
			fmt.Errorf("file is %d bytes, ceiling is %d", size, maxSize))
	}
	return nil
}
