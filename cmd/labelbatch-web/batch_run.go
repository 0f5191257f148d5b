package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dcervan/labelbatch/internal/batch"
	"github.com/dcervan/labelbatch/internal/filehandler"
)

// runBatchJob drives one labeling run and mirrors its progress into the
// job for polling. Called on its own goroutine by handleBatchStart.
func runBatchJob(job *batchJob, images []*filehandler.ImageFile, apiKey string, delay time.Duration) {
	job.mu.Lock()
	job.status = "processing"
	job.mu.Unlock()

	orchestrator := batch.NewOrchestrator().
		WithDelay(delay).
		WithNotifier(&jobNotifier{job: job})

	records, err := orchestrator.Run(context.Background(), images, apiKey)
	if err != nil {
		setJobError(job, err.Error())
		return
	}

	job.mu.Lock()
	job.status = "complete"
	job.mu.Unlock()

	log.Info().
		Str("job", job.id).
		Int("records", len(records)).
		Msg("Web batch complete")
}

func setJobError(job *batchJob, msg string) {
	job.mu.Lock()
	defer job.mu.Unlock()
	job.status = "error"
	job.errMsg = msg
	log.Error().Str("job", job.id).Str("error", msg).Msg("Batch job failed")
}
