package jobs

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("batch-")

	if !strings.HasPrefix(id, "batch-") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) != len("batch-")+32 {
		t.Errorf("id length = %d, want prefix + 32 hex chars", len(id))
	}

	if other := GenerateID("batch-"); other == id {
		t.Error("consecutive IDs must differ")
	}
}
