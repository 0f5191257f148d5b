package main

import (
	"fmt"

	"github.com/dcervan/labelbatch/internal/batch"
)

// consoleNotifier renders batch progress on stdout, one line per event.
type consoleNotifier struct {
	total int
}

func (c *consoleNotifier) OnProgress(percent float64, label string) {
	fmt.Printf("[%5.1f%%] %s\n", percent, label)
}

func (c *consoleNotifier) OnItemStatus(index int, name string, status batch.ItemStatus) {
	// Per-item transitions are already covered by the progress and
	// error lines; nothing extra to print.
}

func (c *consoleNotifier) OnRecord(record batch.Record) {
	tags := record.Tags
	if tags == "" {
		tags = "-"
	}
	fmt.Printf("         %s  category=%s  tags=%s\n", record.Name, orDash(record.CategorySlug), tags)
}

func (c *consoleNotifier) OnItemError(index int, name string, msg string) {
	fmt.Printf("         %s  ERROR: %s\n", name, msg)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
