package store

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"zpcs/internal/domain"
)

var acceptedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

var acceptedFormats = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// ReadSourceImage loads an image file for SetSourceImage and returns its MIME type.
func ReadSourceImage(path string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := acceptedExtensions[ext]; !ok {
		return nil, "", fmt.Errorf("source image %s: %w", filepath.Base(path), domain.ErrUnsupportedImage)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("source image: %w", err)
	}
	mime, err := DetectSourceFormat(data)
	if err != nil {
		return nil, "", fmt.Errorf("source image %s: %w", filepath.Base(path), err)
	}
	return data, mime, nil
}

// DetectSourceFormat decodes the image header and returns the MIME type of a
// PNG, JPEG or WebP payload.
func DetectSourceFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", domain.ErrUnsupportedImage
	}
	mime, ok := acceptedFormats[format]
	if !ok {
		return "", domain.ErrUnsupportedImage
	}
	return mime, nil
}
