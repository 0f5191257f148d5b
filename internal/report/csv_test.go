package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/dcervan/labelbatch/internal/batch"
)

var testRecords = []batch.Record{
	{
		Name:         "cat.jpg",
		Path:         "photos/animals/cat.jpg",
		Size:         2048,
		Width:        640,
		Height:       480,
		Description:  "an orange tabby cat",
		CategorySlug: "animals",
		Tags:         `"cat, animal"`,
	},
	{
		Name: "empty.png",
		Path: "empty.png",
		Size: 10,
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRecords); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader := csv.NewReader(&buf)
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	wantHeader := []string{"name", "path", "size", "width", "height", "description", "category_slug", "tags"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if first[0] != "cat.jpg" || first[2] != "2048" || first[3] != "640" || first[4] != "480" {
		t.Errorf("unexpected first row: %v", first)
	}
	// Tags survive as one field despite the embedded comma.
	if first[7] != `"cat, animal"` {
		t.Errorf("tags field = %q, want %q", first[7], `"cat, animal"`)
	}
	if len(first) != 8 {
		t.Errorf("first row has %d columns, want 8", len(first))
	}

	second := rows[2]
	if second[0] != "empty.png" || second[5] != "" || second[6] != "" || second[7] != "" {
		t.Errorf("unexpected second row: %v", second)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("empty record set should produce header only, got %d lines", len(lines))
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := Export(path, testRecords); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "name,path,size") {
		t.Errorf("report does not start with header: %q", string(data[:20]))
	}
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, "report.csv", testRecords); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}
	zr.RegisterDecompressor(zipMethodZstd, func(r io.Reader) io.ReadCloser {
		dec, err := zstd.NewReader(r)
		if err != nil {
			t.Fatal(err)
		}
		return dec.IOReadCloser()
	})

	if len(zr.File) != 1 || zr.File[0].Name != "report.csv" {
		t.Fatalf("unexpected ZIP contents: %v", zr.File)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "cat.jpg") {
		t.Error("ZIP entry does not contain the CSV rows")
	}
}
