// Package filehandler provides image file loading, filtering and metadata
// extraction for the labeling pipeline.
//
// Metadata extraction is split in two:
//   - Structural metadata (name, path, size, pixel dimensions): decoded
//     headers via image.DecodeConfig, never touches the network.
//   - EXIF metadata (date taken, camera, GPS): evanoberholster/imagemeta,
//     exposed separately for inspection surfaces.
package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedImageExtensions defines the file extensions accepted into a batch.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// ImageFile represents one candidate image for the batch pipeline.
// The pipeline treats it as read-only; file data is read from disk at the
// point of the vision call, not held in memory.
type ImageFile struct {
	Path     string
	Name     string
	MIMEType string
	Size     int64
}

// LoadImageFile stats a file on disk and returns an ImageFile struct.
// It rejects directories and unsupported extensions.
func LoadImageFile(filePath string) (*ImageFile, error) {
	log.Debug().Str("path", filePath).Msg("Loading image file")

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	mimeType, err := GetMIMEType(ext)
	if err != nil {
		return nil, err
	}

	return &ImageFile{
		Path:     filePath,
		Name:     filepath.Base(filePath),
		MIMEType: mimeType,
		Size:     info.Size(),
	}, nil
}

// GetMIMEType returns the MIME type for a given file extension.
func GetMIMEType(ext string) (string, error) {
	if mimeType, ok := SupportedImageExtensions[strings.ToLower(ext)]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// IsImage returns true if the file extension corresponds to a supported image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}
