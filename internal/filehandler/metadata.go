package filehandler

import (
	"image"
	"os"

	"github.com/rs/zerolog/log"

	// Register decoders so image.DecodeConfig can probe dimensions for
	// every supported extension.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Metadata is the structural metadata for one image, derived entirely from
// the local file. Width and Height are 0 when dimension probing fails.
type Metadata struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ExtractMetadata derives structural metadata for an image file.
// It never fails: when the image header cannot be decoded, dimensions
// default to 0 and the batch continues.
func ExtractMetadata(f *ImageFile) Metadata {
	meta := Metadata{
		Name: f.Name,
		Path: f.Path,
		Size: f.Size,
	}

	width, height, err := probeDimensions(f.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", f.Path).Msg("Failed to probe image dimensions, defaulting to 0x0")
		return meta
	}

	meta.Width = width
	meta.Height = height
	return meta
}

// probeDimensions reads just the image header to determine pixel dimensions.
func probeDimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
