// Package jobs holds the background task definitions and the Asynq worker
// wrapper. The only scheduled task is the nightly sales rollup.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSalesRollup aggregates one day of sales into the reports collection.
	TaskSalesRollup = "sales:rollup"

	// SalesRollupCron fires at midnight, closing out the previous day.
	SalesRollupCron = "0 0 * * *"
)

// SalesRollupPayload names the day to aggregate. A zero Day means "the day
// before the task runs".
type SalesRollupPayload struct {
	Day time.Time `json:"day"`
}

// NewSalesRollupTask constructs an Asynq task for the sales rollup.
func NewSalesRollupTask(day time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SalesRollupPayload{Day: day})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSalesRollup, body, asynq.Queue(QueueDefault)), nil
}
