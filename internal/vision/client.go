// Package vision provides a REST client for the Cloud Vision images:annotate
// endpoint. One request per image: label detection (top 20) plus web
// detection (top 1) for a best-guess description.
//
// The client never returns a Go error from an analysis call. Every failure
// mode — unreadable file, transport failure, non-2xx status, embedded API
// error, malformed response — is normalized into Result.Err so a single bad
// image can never abort a batch.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// visionBaseURL is the Cloud Vision REST API base URL.
const visionBaseURL = "https://vision.googleapis.com/v1"

// errUnknown is the fallback message when the service gives no usable error.
const errUnknown = "Unknown"

const (
	maxLabelResults = 20
	maxWebResults   = 1
)

// Client calls the Cloud Vision annotate endpoint, authenticated via a
// query-string API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Vision API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: visionBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL overrides the API base URL. Used in tests against httptest.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Label is one service-provided text tag with a confidence score in [0,1].
type Label struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Result is the normalized outcome of one annotate call. When Err is set
// the call failed and Labels/Description are empty.
type Result struct {
	Labels      []Label `json:"labels"`
	Description string  `json:"description"`
	Err         string  `json:"error,omitempty"`
}

// Failed reports whether the call produced an error instead of annotations.
func (r Result) Failed() bool {
	return r.Err != ""
}

// errResult builds a failed Result, substituting the unknown-error fallback
// for an empty message.
func errResult(msg string) Result {
	if msg == "" {
		msg = errUnknown
	}
	return Result{Err: msg}
}

// --- REST API request/response types ---

type annotateRequest struct {
	Requests []annotateItem `json:"requests"`
}

type annotateItem struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"` // base64 encoded
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []annotateResult `json:"responses"`
	Error     *apiError        `json:"error,omitempty"`
}

type annotateResult struct {
	LabelAnnotations []Label       `json:"labelAnnotations"`
	WebDetection     *webDetection `json:"webDetection,omitempty"`
	Error            *apiError     `json:"error,omitempty"`
}

type webDetection struct {
	BestGuessLabels []bestGuessLabel `json:"bestGuessLabels"`
}

type bestGuessLabel struct {
	Label string `json:"label"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// AnalyzeFile reads an image from disk and submits it for annotation.
// A read failure is reported through Result.Err like any remote failure.
func (c *Client) AnalyzeFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to read image for encoding")
		return errResult(fmt.Sprintf("failed to read image: %v", err))
	}
	return c.Analyze(ctx, data)
}

// Analyze submits one image for label and web detection. Exactly one
// network call per invocation; no retries.
func (c *Client) Analyze(ctx context.Context, data []byte) Result {
	startTime := time.Now()
	log.Debug().
		Int("image_bytes", len(data)).
		Msg("Sending image to Vision API for annotation")

	req := annotateRequest{
		Requests: []annotateItem{
			{
				Image: imageContent{Content: base64.StdEncoding.EncodeToString(data)},
				Features: []feature{
					{Type: "LABEL_DETECTION", MaxResults: maxLabelResults},
					{Type: "WEB_DETECTION", MaxResults: maxWebResults},
				},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return errResult(fmt.Sprintf("failed to marshal request: %v", err))
	}

	url := fmt.Sprintf("%s/images:annotate?key=%s", c.baseURL, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errResult(fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Msg("Vision API request failed")
		return errResult(fmt.Sprintf("HTTP request failed: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errResult(fmt.Sprintf("failed to read response: %v", err))
	}

	// Parse even on non-2xx: error responses carry the service message.
	var annotateResp annotateResponse
	parseErr := json.Unmarshal(respBody, &annotateResp)

	if resp.StatusCode != http.StatusOK {
		msg := errUnknown
		if parseErr == nil && annotateResp.Error != nil && annotateResp.Error.Message != "" {
			msg = annotateResp.Error.Message
		}
		log.Warn().
			Int("status", resp.StatusCode).
			Str("error", msg).
			Msg("Vision API returned error status")
		return errResult(msg)
	}

	if parseErr != nil {
		log.Warn().Err(parseErr).Msg("Failed to parse Vision API response")
		return errResult(fmt.Sprintf("failed to parse response: %v", parseErr))
	}

	if annotateResp.Error != nil {
		return errResult(annotateResp.Error.Message)
	}

	if len(annotateResp.Responses) == 0 {
		return errResult(errUnknown)
	}

	first := annotateResp.Responses[0]
	if first.Error != nil {
		return errResult(first.Error.Message)
	}

	result := Result{Labels: first.LabelAnnotations}
	if first.WebDetection != nil && len(first.WebDetection.BestGuessLabels) > 0 {
		result.Description = first.WebDetection.BestGuessLabels[0].Label
	}

	log.Debug().
		Int("labels", len(result.Labels)).
		Dur("duration", time.Since(startTime)).
		Msg("Vision API annotation complete")

	return result
}
