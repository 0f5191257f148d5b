package filehandler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsImage(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{".jpg", true},
		{".jpeg", true},
		{".JPG", true},
		{".JPEG", true},
		{".png", true},
		{".PNG", true},
		{".gif", true},
		{".webp", true},
		{".bmp", true},
		{".tif", true},
		{".tiff", true},
		{".mp4", false},
		{".txt", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			result := IsImage(tt.ext)
			if result != tt.expected {
				t.Errorf("IsImage(%q) = %v, want %v", tt.ext, result, tt.expected)
			}
		})
	}
}

func TestGetMIMEType(t *testing.T) {
	tests := []struct {
		ext          string
		expectedMIME string
		expectError  bool
	}{
		{".jpg", "image/jpeg", false},
		{".jpeg", "image/jpeg", false},
		{".png", "image/png", false},
		{".gif", "image/gif", false},
		{".webp", "image/webp", false},
		{".bmp", "image/bmp", false},
		{".tiff", "image/tiff", false},
		{".txt", "", true},
		{".mp4", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			mime, err := GetMIMEType(tt.ext)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q, got nil", tt.ext)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error for %q: %v", tt.ext, err)
				}
				if mime != tt.expectedMIME {
					t.Errorf("GetMIMEType(%q) = %q, want %q", tt.ext, mime, tt.expectedMIME)
				}
			}
		})
	}
}

func TestLoadImageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, []byte("not-really-a-jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadImageFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "photo.jpg" {
		t.Errorf("Name = %q, want %q", f.Name, "photo.jpg")
	}
	if f.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want %q", f.MIMEType, "image/jpeg")
	}
	if f.Size != int64(len("not-really-a-jpeg")) {
		t.Errorf("Size = %d, want %d", f.Size, len("not-really-a-jpeg"))
	}
}

func TestLoadImageFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadImageFile(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("expected error for missing file, got nil")
	}

	if _, err := LoadImageFile(dir); err == nil {
		t.Error("expected error for directory path, got nil")
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImageFile(txt); err == nil {
		t.Error("expected error for unsupported extension, got nil")
	}
}
