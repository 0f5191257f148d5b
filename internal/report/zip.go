package report

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/dcervan/labelbatch/internal/batch"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
const zipMethodZstd uint16 = 93

func init() {
	// Register Zstandard (zstd) as a ZIP compressor. Level 12 maps to
	// SpeedBestCompression in klauspost/compress — the highest compression
	// the Go library supports.
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(12)))
	})
}

// WriteZip bundles the CSV report into a ZIP archive under the given
// entry name, compressed with zstd.
func WriteZip(w io.Writer, name string, records []batch.Record) error {
	zw := zip.NewWriter(w)

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zipMethodZstd,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry: %w", err)
	}

	if err := WriteCSV(entry, records); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize ZIP: %w", err)
	}
	return nil
}
