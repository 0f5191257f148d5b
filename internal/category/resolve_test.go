package category

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"nested path", "photos/animals/cat.jpg", "animals"},
		{"bare filename", "cat.jpg", ""},
		{"invalid slug characters", "a/b!c/cat.jpg", ""},
		{"empty path", "", ""},
		{"windows separators", "photos\\Animals\\cat.jpg", "animals"},
		{"mixed separators", "photos/Pets\\dog.png", "pets"},
		{"uppercase slug lowercased", "photos/LANDSCAPES/view.jpg", "landscapes"},
		{"hyphenated slug", "sets/road-trips/img.jpg", "road-trips"},
		{"underscore slug", "sets/road_trips/img.jpg", "road_trips"},
		{"slug with space rejected", "my photos/odd dir/img.jpg", ""},
		{"two segments", "animals/cat.jpg", "animals"},
		{"trailing separator", "photos/animals/", "animals"},
		{"empty middle segment", "photos//cat.jpg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.path); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
