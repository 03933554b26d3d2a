package jobs

import (
	"fmt"
	"sort"
)

// Set is the full collection of jobs built from one configuration
type Set struct {
	Heartbeat      *Heartbeat
	LowStock       *LowStockUpdater
	OrderReminders *OrderReminders
	// LogArchive is nil when object storage is not configured.
	LogArchive *LogArchiver
}

// Lookup returns the job registered under name
func (s Set) Lookup(name string) (Job, error) {
	switch name {
	case HeartbeatJob:
		return s.Heartbeat, nil
	case LowStockJob:
		return s.LowStock, nil
	case OrderRemindersJob:
		return s.OrderReminders, nil
	case LogArchiveJob:
		if s.LogArchive == nil {
			return nil, fmt.Errorf("job %s requires object storage to be configured", name)
		}
		return s.LogArchive, nil
	}
	return nil, fmt.Errorf("unknown job %q (expected one of %v)", name, Names())
}

// Names lists every job name
func Names() []string {
	names := []string{HeartbeatJob, LowStockJob, OrderRemindersJob, LogArchiveJob}
	sort.Strings(names)
	return names
}

// LogPaths names the log file of each job
type LogPaths struct {
	Heartbeat      string
	LowStock       string
	OrderReminders string
}

// NewSet builds every job over one endpoint client. uploader may be nil.
func NewSet(client *Client, paths LogPaths, uploader ObjectUploader, bucket string) Set {
	heartbeatLog := NewLogFile(paths.Heartbeat)
	lowStockLog := NewLogFile(paths.LowStock)
	remindersLog := NewLogFile(paths.OrderReminders)

	set := Set{
		Heartbeat:      NewHeartbeat(client, heartbeatLog),
		LowStock:       NewLowStockUpdater(client, lowStockLog),
		OrderReminders: NewOrderReminders(client, remindersLog),
	}
	if uploader != nil {
		set.LogArchive = NewLogArchiver(uploader, bucket, map[string]*LogFile{
			HeartbeatJob:      heartbeatLog,
			LowStockJob:       lowStockLog,
			OrderRemindersJob: remindersLog,
		})
	}
	return set
}
