package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/ledger"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Reconciler recomputes stored product quantities from the movement ledger.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]ledger.Drift, error)
}

// StockIntegrityJob repairs products whose stored quantity no longer equals
// the ledger sum, typically after manual database edits or partial restores.
type StockIntegrityJob struct {
	reconciler Reconciler
	logger     *slog.Logger
	m          *jobmetrics.Metrics
}

// NewStockIntegrityJob constructs the job. A nil metrics falls back to the
// process-wide default registry.
func NewStockIntegrityJob(reconciler Reconciler, logger *slog.Logger, metrics *jobmetrics.Metrics) *StockIntegrityJob {
	return &StockIntegrityJob{reconciler: reconciler, logger: logger, m: metrics}
}

// Handle processes TaskStockIntegrity tasks.
func (j *StockIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload StockIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskStockIntegrity)
	drift, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		j.logger.Error("stock integrity scan failed", slog.Any("error", err))
		return tracker.End(err)
	}
	if len(drift) == 0 {
		j.logger.Info("stock integrity scan clean", slog.String("job", TaskStockIntegrity))
		return tracker.End(nil)
	}
	j.metrics().AddDrift(TaskStockIntegrity, len(drift))
	for _, d := range drift {
		j.logger.Warn("stock drift repaired",
			slog.Int64("product_id", d.ProductID),
			slog.Int64("stored", d.Stored),
			slog.Int64("derived", d.Derived))
	}
	return tracker.End(nil)
}

func (j *StockIntegrityJob) metrics() *jobmetrics.Metrics {
	if j.m != nil {
		return j.m
	}
	return defaultJobMetrics
}
