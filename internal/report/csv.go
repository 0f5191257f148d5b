// Package report renders accumulated batch records as a downloadable
// CSV report, optionally bundled into a ZIP.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dcervan/labelbatch/internal/batch"
)

// Columns is the fixed CSV column order.
var Columns = []string{"name", "path", "size", "width", "height", "description", "category_slug", "tags"}

// WriteCSV writes the header plus one row per record. The tags field
// carries its own quoting so multi-tag values survive in one column;
// the csv writer escapes it on top of that.
func WriteCSV(w io.Writer, records []batch.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Name,
			rec.Path,
			strconv.FormatInt(rec.Size, 10),
			strconv.Itoa(rec.Width),
			strconv.Itoa(rec.Height),
			rec.Description,
			rec.CategorySlug,
			rec.Tags,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Export writes the CSV report to a file.
func Export(path string, records []batch.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Int("rows", len(records)).
		Msg("CSV report written")

	return nil
}
