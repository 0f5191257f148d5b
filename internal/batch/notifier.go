package batch

// ItemStatus is the lifecycle state of one image within a batch run.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusProcessing ItemStatus = "processing"
	StatusCompleted  ItemStatus = "completed"
	StatusErrored    ItemStatus = "error"
)

// Notifier receives progress and per-item events from a batch run. It
// decouples the orchestrator from any concrete presentation surface: the
// CLI prints to the console, the web backend updates a polled job.
//
// Callbacks are invoked from the run's goroutine, strictly in item order.
// Implementations must not block for long; the run waits on them.
type Notifier interface {
	// OnProgress reports overall progress, percent in (0, 100], with a
	// human-readable label. The final call is always (100, "completed").
	OnProgress(percent float64, label string)

	// OnItemStatus reports an item transition (processing, completed, error).
	OnItemStatus(index int, name string, status ItemStatus)

	// OnRecord announces a newly built result row.
	OnRecord(record Record)

	// OnItemError surfaces a per-item failure message. The batch continues.
	OnItemError(index int, name string, msg string)
}

// NoopNotifier implements Notifier and does nothing. Useful as a default
// when no progress reporting is needed.
type NoopNotifier struct{}

func (NoopNotifier) OnProgress(percent float64, label string)           {}
func (NoopNotifier) OnItemStatus(index int, name string, st ItemStatus) {}
func (NoopNotifier) OnRecord(record Record)                             {}
func (NoopNotifier) OnItemError(index int, name string, msg string)     {}
