// Package jobs holds the background task definitions and the Asynq
// worker plumbing that runs them.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockIntegrity recomputes product quantities from the movement
	// ledger and repairs any drift.
	TaskStockIntegrity = "stock:integrity_scan"
)

// StockIntegrityPayload carries the scan request metadata.
type StockIntegrityPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// NewStockIntegrityTask constructs an Asynq task for the integrity scan.
func NewStockIntegrityTask() (*asynq.Task, error) {
	data, err := json.Marshal(StockIntegrityPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockIntegrity, data), nil
}
