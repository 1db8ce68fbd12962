package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	jobmetrics "github.com/martpos/martpos/internal/jobs"
)

// SalesReport is the persisted daily aggregate, one document per day in
// the reports collection.
type SalesReport struct {
	ID               string    `json:"id"`
	Day              string    `json:"day"`
	SalesTotal       float64   `json:"salesTotal"`
	TransactionCount int       `json:"transactionCount"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// SalesRollup reads the transactions collection and writes one report
// document per aggregated day.
type SalesRollup struct {
	docs    docstore.Store
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSalesRollup constructs the rollup handler. metrics may be nil.
func NewSalesRollup(docs docstore.Store, logger *slog.Logger, metrics *jobmetrics.Metrics) *SalesRollup {
	return &SalesRollup{docs: docs, logger: logger, metrics: metrics, clock: time.Now}
}

// Handle processes TaskSalesRollup tasks. The report is idempotent per
// day: re-running the rollup overwrites the same document.
func (r *SalesRollup) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := r.metrics.Track(TaskSalesRollup)

	var payload SalesRollupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}

	day := payload.Day
	if day.IsZero() {
		day = r.clock().AddDate(0, 0, -1)
	}

	docs, err := r.docs.List(ctx, docstore.CollectionTransactions)
	if err != nil {
		return tracker.End(err)
	}

	var total float64
	count := 0
	for _, doc := range docs {
		var tx domain.Transaction
		if err := json.Unmarshal(doc.Data, &tx); err != nil {
			r.logger.Warn("sales rollup: skipping undecodable transaction",
				slog.String("id", doc.ID), slog.Any("error", err))
			continue
		}
		if tx.Type != domain.TransactionSale || !domain.SameDay(tx.Timestamp, day) {
			continue
		}
		total += tx.Amount
		count++
	}

	report := SalesReport{
		ID:               "sales-" + day.Format("2006-01-02"),
		Day:              day.Format("2006-01-02"),
		SalesTotal:       total,
		TransactionCount: count,
		GeneratedAt:      r.clock(),
	}
	data, err := json.Marshal(report)
	if err != nil {
		return tracker.End(err)
	}
	if err := r.docs.Upsert(ctx, docstore.CollectionReports, report.ID, data); err != nil {
		return tracker.End(err)
	}

	r.logger.Info("sales rollup complete",
		slog.String("day", report.Day),
		slog.Float64("total", total),
		slog.Int("count", count))
	return tracker.End(nil)
}
