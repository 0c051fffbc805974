package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

// TaskIdempotencyCleanup prunes processed idempotency keys past retention.
const TaskIdempotencyCleanup = "idempotency:cleanup"

// DefaultKeyRetention keeps keys long enough to absorb any realistic client
// retry window before the row is reclaimed.
const DefaultKeyRetention = 24 * time.Hour

// IdempotencyCleanupPayload carries the retention for one cleanup run.
type IdempotencyCleanupPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewIdempotencyCleanupTask constructs an Asynq task for the key cleanup.
// A non-positive retention falls back to DefaultKeyRetention.
func NewIdempotencyCleanupTask(retention time.Duration) (*asynq.Task, error) {
	if retention <= 0 {
		retention = DefaultKeyRetention
	}
	data, err := json.Marshal(IdempotencyCleanupPayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}

// KeyCleaner removes idempotency keys older than the retention window.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// IdempotencyCleanupJob keeps the idempotency_keys table bounded. Every keyed
// movement inserts a row, so without this job the table grows forever.
type IdempotencyCleanupJob struct {
	cleaner KeyCleaner
	logger  *slog.Logger
	m       *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob constructs the job. A nil metrics falls back to the
// process-wide default registry.
func NewIdempotencyCleanupJob(cleaner KeyCleaner, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{cleaner: cleaner, logger: logger, m: metrics}
}

// Handle processes TaskIdempotencyCleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload IdempotencyCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	retention := payload.Retention
	if retention <= 0 {
		retention = DefaultKeyRetention
	}

	tracker := j.metrics().Track(TaskIdempotencyCleanup)
	if err := j.cleaner.Cleanup(ctx, retention); err != nil {
		j.logger.Error("idempotency cleanup failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Info("idempotency keys pruned",
		slog.String("job", TaskIdempotencyCleanup),
		slog.Duration("retention", retention))
	return tracker.End(nil)
}

func (j *IdempotencyCleanupJob) metrics() *jobmetrics.Metrics {
	if j.m != nil {
		return j.m
	}
	return defaultJobMetrics
}
