package batch

import (
	"strings"

	"github.com/dcervan/labelbatch/internal/category"
	"github.com/dcervan/labelbatch/internal/filehandler"
	"github.com/dcervan/labelbatch/internal/vision"
)

// TagScoreThreshold is the minimum confidence for a label to become a tag.
// The comparison is strict: a label scoring exactly 0.6 is excluded.
const TagScoreThreshold = 0.6

// maxDescriptionLen caps the stored description at 100 characters.
const maxDescriptionLen = 100

// Record is the final per-image output row. Immutable after creation.
//
// Tags holds the comma-and-space-joined lowercased label texts wrapped in
// quotes (e.g. `"cat, animal"`), or "" when no label clears the threshold.
// The quoting keeps multi-tag values in a single CSV column.
type Record struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Description  string `json:"description"`
	CategorySlug string `json:"categorySlug"`
	Tags         string `json:"tags"`
}

// BuildRecord merges structural metadata and a successful vision result
// into one Record. It must only be called for non-error results; the
// orchestrator short-circuits failed items before reaching it.
func BuildRecord(meta filehandler.Metadata, res vision.Result) Record {
	var tags []string
	for _, label := range res.Labels {
		if label.Score > TagScoreThreshold {
			tags = append(tags, strings.ToLower(label.Description))
		}
	}

	tagField := ""
	if len(tags) > 0 {
		tagField = `"` + strings.Join(tags, ", ") + `"`
	}

	return Record{
		Name:         meta.Name,
		Path:         meta.Path,
		Size:         meta.Size,
		Width:        meta.Width,
		Height:       meta.Height,
		Description:  truncate(res.Description, maxDescriptionLen),
		CategorySlug: category.Resolve(meta.Path),
		Tags:         tagField,
	}
}

// truncate cuts s to at most maxChars characters without adding an ellipsis.
func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
