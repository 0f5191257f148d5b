// Package batch drives the image labeling pipeline: it walks a fixed set
// of images one at a time through metadata extraction and the remote
// vision call, isolates per-item failures, reports progress, and
// accumulates the final result records.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dcervan/labelbatch/internal/filehandler"
	"github.com/dcervan/labelbatch/internal/vision"
)

// DefaultDelay is the pause inserted after each item as a rate-limiting
// courtesy to the remote service.
const DefaultDelay = 200 * time.Millisecond

// Precondition violations rejected before a run starts.
var (
	ErrNoImages = errors.New("batch: no images to process")
	ErrNoAPIKey = errors.New("batch: missing API key")
)

// Analyzer performs one remote annotation call per image file.
// *vision.Client satisfies it; tests substitute a deterministic stub.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) vision.Result
}

// RunState is the lifecycle state of a batch run.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
)

// State holds the current image set and the accumulated records for one
// batch run. It is exclusively owned by its Orchestrator; concurrency
// safety comes from single ownership, not locking.
type State struct {
	Images  []*filehandler.ImageFile
	Records []Record
}

// Reset clears both collections.
func (s *State) Reset() {
	s.Images = nil
	s.Records = nil
}

// Orchestrator processes batches strictly sequentially: item i+1 never
// starts before item i's full lifecycle completes. This keeps progress
// monotonic and avoids concurrent-request pressure on the remote API.
type Orchestrator struct {
	newAnalyzer func(apiKey string) Analyzer
	notifier    Notifier
	delay       time.Duration
	state       State
	runState    RunState
}

// NewOrchestrator creates an orchestrator backed by the Cloud Vision
// client, with no-op notifications and the default inter-item delay.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		newAnalyzer: func(apiKey string) Analyzer { return vision.NewClient(apiKey) },
		notifier:    NoopNotifier{},
		delay:       DefaultDelay,
	}
}

// WithNotifier sets the progress/status notifier.
func (o *Orchestrator) WithNotifier(n Notifier) *Orchestrator {
	if n != nil {
		o.notifier = n
	}
	return o
}

// WithDelay sets the inter-item delay. Negative values mean no delay.
func (o *Orchestrator) WithDelay(d time.Duration) *Orchestrator {
	o.delay = d
	return o
}

// WithAnalyzerFactory overrides how the per-run analyzer is built.
// Used in tests to inject deterministic results.
func (o *Orchestrator) WithAnalyzerFactory(f func(apiKey string) Analyzer) *Orchestrator {
	if f != nil {
		o.newAnalyzer = f
	}
	return o
}

// RunState returns the current run lifecycle state.
func (o *Orchestrator) RunState() RunState {
	return o.runState
}

// Records returns the accumulated records of the last run.
func (o *Orchestrator) Records() []Record {
	return o.state.Records
}

// Reset clears the orchestrator's state ahead of a new file set.
func (o *Orchestrator) Reset() {
	o.state.Reset()
	o.runState = StateIdle
}

// Run processes every image in order and returns the records for the
// items that succeeded. Per-item failures are surfaced through the
// notifier and skipped; one bad image never aborts the batch. The only
// failure modes of Run itself are the empty-input and missing-key
// preconditions, and context cancellation.
func (o *Orchestrator) Run(ctx context.Context, images []*filehandler.ImageFile, apiKey string) ([]Record, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}

	batchID := uuid.NewString()
	logger := log.With().Str("batch_id", batchID).Logger()

	o.state.Reset()
	o.state.Images = images
	o.runState = StateRunning

	analyzer := o.newAnalyzer(apiKey)
	n := len(images)
	startTime := time.Now()
	errored := 0

	logger.Info().Int("images", n).Msg("Batch run started")

	for i, img := range images {
		percent := float64(i+1) / float64(n) * 100
		o.notifier.OnProgress(percent, fmt.Sprintf("processing %s", img.Name))
		o.notifier.OnItemStatus(i, img.Name, StatusProcessing)

		meta := filehandler.ExtractMetadata(img)
		result := analyzer.AnalyzeFile(ctx, img.Path)

		if result.Failed() {
			errored++
			logger.Warn().
				Str("image", img.Name).
				Str("error", result.Err).
				Msg("Image annotation failed, skipping")
			o.notifier.OnItemError(i, img.Name, result.Err)
			o.notifier.OnItemStatus(i, img.Name, StatusErrored)
		} else {
			record := BuildRecord(meta, result)
			o.state.Records = append(o.state.Records, record)
			o.notifier.OnItemStatus(i, img.Name, StatusCompleted)
			o.notifier.OnRecord(record)
		}

		if o.delay > 0 {
			select {
			case <-time.After(o.delay):
			case <-ctx.Done():
				return o.state.Records, ctx.Err()
			}
		}
	}

	o.notifier.OnProgress(100, "completed")
	o.runState = StateCompleted

	logger.Info().
		Int("processed", len(o.state.Records)).
		Int("errored", errored).
		Dur("duration", time.Since(startTime)).
		Msg("Batch run complete")

	return o.state.Records, nil
}
