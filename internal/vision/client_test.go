package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key").WithBaseURL(srv.URL)
}

func TestAnalyzeSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images:annotate" {
			t.Errorf("path = %q, want /images:annotate", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want test-key", r.URL.Query().Get("key"))
		}

		var req annotateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Requests) != 1 {
			t.Fatalf("len(requests) = %d, want 1", len(req.Requests))
		}
		features := req.Requests[0].Features
		if len(features) != 2 || features[0].Type != "LABEL_DETECTION" || features[0].MaxResults != 20 ||
			features[1].Type != "WEB_DETECTION" || features[1].MaxResults != 1 {
			t.Errorf("unexpected features: %+v", features)
		}

		json.NewEncoder(w).Encode(annotateResponse{
			Responses: []annotateResult{
				{
					LabelAnnotations: []Label{
						{Description: "Cat", Score: 0.97},
						{Description: "Mammal", Score: 0.85},
					},
					WebDetection: &webDetection{
						BestGuessLabels: []bestGuessLabel{{Label: "orange tabby cat"}},
					},
				},
			},
		})
	})

	result := client.Analyze(context.Background(), []byte("fake-image-bytes"))

	if result.Failed() {
		t.Fatalf("unexpected error: %q", result.Err)
	}
	if len(result.Labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2", len(result.Labels))
	}
	if result.Labels[0].Description != "Cat" || result.Labels[0].Score != 0.97 {
		t.Errorf("first label = %+v", result.Labels[0])
	}
	if result.Description != "orange tabby cat" {
		t.Errorf("description = %q, want %q", result.Description, "orange tabby cat")
	}
}

func TestAnalyzeNoWebDetection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(annotateResponse{
			Responses: []annotateResult{{}},
		})
	})

	result := client.Analyze(context.Background(), []byte("img"))

	if result.Failed() {
		t.Fatalf("unexpected error: %q", result.Err)
	}
	if len(result.Labels) != 0 || result.Description != "" {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestAnalyzeHTTPErrorWithMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(annotateResponse{
			Error: &apiError{Code: 403, Message: "API key not valid", Status: "PERMISSION_DENIED"},
		})
	})

	result := client.Analyze(context.Background(), []byte("img"))

	if !result.Failed() {
		t.Fatal("expected failed result")
	}
	if result.Err != "API key not valid" {
		t.Errorf("Err = %q, want service message", result.Err)
	}
	if len(result.Labels) != 0 || result.Description != "" {
		t.Error("failed result must carry empty labels and description")
	}
}

func TestAnalyzeHTTPErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("gateway exploded"))
	})

	result := client.Analyze(context.Background(), []byte("img"))

	if !result.Failed() {
		t.Fatal("expected failed result")
	}
	if result.Err != "Unknown" {
		t.Errorf("Err = %q, want Unknown fallback", result.Err)
	}
}

func TestAnalyzeEmbeddedItemError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(annotateResponse{
			Responses: []annotateResult{
				{Error: &apiError{Code: 3, Message: "Bad image data", Status: "INVALID_ARGUMENT"}},
			},
		})
	})

	result := client.Analyze(context.Background(), []byte("img"))

	if !result.Failed() {
		t.Fatal("expected failed result")
	}
	if result.Err != "Bad image data" {
		t.Errorf("Err = %q, want embedded message", result.Err)
	}
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	result := client.Analyze(context.Background(), []byte("img"))

	if !result.Failed() {
		t.Fatal("expected failed result for malformed JSON")
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	client := NewClient("test-key").WithBaseURL(srv.URL)
	result := client.Analyze(context.Background(), []byte("img"))

	if !result.Failed() {
		t.Fatal("expected failed result for transport failure")
	}
}

func TestAnalyzeFileReadFailure(t *testing.T) {
	client := NewClient("test-key")

	result := client.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))

	if !result.Failed() {
		t.Fatal("expected failed result for unreadable file")
	}
}

func TestAnalyzeFileSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.jpg")
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(annotateResponse{
			Responses: []annotateResult{
				{LabelAnnotations: []Label{{Description: "Thing", Score: 0.7}}},
			},
		})
	})

	result := client.AnalyzeFile(context.Background(), path)

	if result.Failed() {
		t.Fatalf("unexpected error: %q", result.Err)
	}
	if len(result.Labels) != 1 {
		t.Errorf("len(labels) = %d, want 1", len(result.Labels))
	}
}
