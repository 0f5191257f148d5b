package main

import (
	"sync"

	"github.com/dcervan/labelbatch/internal/batch"
	"github.com/dcervan/labelbatch/internal/jobs"
)

// --- Batch Job Management ---

// batchJob tracks one labeling run for status polling. One batch is
// in flight per job; all fields are guarded by mu because the run
// goroutine writes while status requests read.
type batchJob struct {
	mu      sync.Mutex
	id      string
	status  string // "pending", "processing", "complete", "error"
	percent float64
	label   string
	items   []jobItem
	records []batch.Record
	errMsg  string
}

type jobItem struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pending", "processing", "completed", "error"
	Error  string `json:"error,omitempty"`
}

var (
	jobsMu   sync.Mutex
	jobStore = make(map[string]*batchJob)
)

func newJob(itemNames []string) *batchJob {
	jobsMu.Lock()
	defer jobsMu.Unlock()

	items := make([]jobItem, len(itemNames))
	for i, name := range itemNames {
		items[i] = jobItem{Name: name, Status: string(batch.StatusPending)}
	}

	j := &batchJob{
		id:     jobs.GenerateID("batch-"),
		status: "pending",
		items:  items,
	}
	jobStore[j.id] = j
	return j
}

func getJob(id string) *batchJob {
	jobsMu.Lock()
	defer jobsMu.Unlock()
	return jobStore[id]
}

func deleteJob(id string) bool {
	jobsMu.Lock()
	defer jobsMu.Unlock()
	if _, ok := jobStore[id]; !ok {
		return false
	}
	delete(jobStore, id)
	return true
}

// jobNotifier bridges orchestrator events into the polled job state.
type jobNotifier struct {
	job *batchJob
}

func (n *jobNotifier) OnProgress(percent float64, label string) {
	n.job.mu.Lock()
	defer n.job.mu.Unlock()
	n.job.percent = percent
	n.job.label = label
}

func (n *jobNotifier) OnItemStatus(index int, name string, status batch.ItemStatus) {
	n.job.mu.Lock()
	defer n.job.mu.Unlock()
	if index >= 0 && index < len(n.job.items) {
		n.job.items[index].Status = string(status)
	}
}

func (n *jobNotifier) OnRecord(record batch.Record) {
	n.job.mu.Lock()
	defer n.job.mu.Unlock()
	n.job.records = append(n.job.records, record)
}

func (n *jobNotifier) OnItemError(index int, name string, msg string) {
	n.job.mu.Lock()
	defer n.job.mu.Unlock()
	if index >= 0 && index < len(n.job.items) {
		n.job.items[index].Error = msg
	}
}
