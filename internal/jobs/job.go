package jobs

import "context"

// Job is a unit of scheduled work. Run reports failures in the job's own
// log; the returned error only feeds run bookkeeping.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

const (
	HeartbeatJob      = "heartbeat"
	LowStockJob       = "lowstock"
	OrderRemindersJob = "reminders"
	LogArchiveJob     = "archive"
)
