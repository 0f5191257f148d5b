package filehandler

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// EXIFInfo contains camera metadata extracted from an image file.
// This is inspection-only data; the batch pipeline itself does not depend
// on it.
type EXIFInfo struct {
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	HasGPS    bool      `json:"hasGps"`
	DateTaken time.Time `json:"dateTaken,omitempty"`
	HasDate   bool      `json:"hasDate"`

	CameraMake  string `json:"cameraMake,omitempty"`
	CameraModel string `json:"cameraModel,omitempty"`
}

// ExtractEXIF extracts EXIF metadata from an image file using the imagemeta
// library. Only metadata bytes are read, not the entire image file.
//
// Date resolution uses a fallback chain: DateTimeOriginal > CreateDate >
// ModifyDate.
func ExtractEXIF(filePath string) (*EXIFInfo, error) {
	log.Debug().Str("path", filePath).Msg("Extracting EXIF metadata")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	exifData, err := imagemeta.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	info := &EXIFInfo{}

	gps := exifData.GPS
	if gps.Latitude() != 0 || gps.Longitude() != 0 {
		info.Latitude = gps.Latitude()
		info.Longitude = gps.Longitude()
		info.HasGPS = true
	}

	if !exifData.DateTimeOriginal().IsZero() {
		info.DateTaken = exifData.DateTimeOriginal()
		info.HasDate = true
	} else if !exifData.CreateDate().IsZero() {
		info.DateTaken = exifData.CreateDate()
		info.HasDate = true
	} else if !exifData.ModifyDate().IsZero() {
		info.DateTaken = exifData.ModifyDate()
		info.HasDate = true
	}

	info.CameraMake = strings.TrimSpace(exifData.Make)
	info.CameraModel = strings.TrimSpace(exifData.Model)

	return info, nil
}

// FormatSummary renders the EXIF info as a short human-readable block for
// console output.
func (e *EXIFInfo) FormatSummary() string {
	var sb strings.Builder

	if e.HasDate {
		sb.WriteString(fmt.Sprintf("  taken: %s\n", e.DateTaken.Format("2006-01-02 15:04:05")))
	}
	if e.CameraMake != "" || e.CameraModel != "" {
		sb.WriteString(fmt.Sprintf("  camera: %s %s\n", e.CameraMake, e.CameraModel))
	}
	if e.HasGPS {
		sb.WriteString(fmt.Sprintf("  gps: %.6f, %.6f\n", e.Latitude, e.Longitude))
	}
	if sb.Len() == 0 {
		sb.WriteString("  no EXIF metadata\n")
	}

	return sb.String()
}
