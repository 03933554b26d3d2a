package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultHeartbeatCron  = "*/5 * * * *"
	DefaultLowStockCron   = "0 */12 * * *"
	DefaultLogArchiveCron = "30 0 * * *"
)

// Schedule holds one cron expression per scheduled job. An empty entry
// keeps the default; "off" disables the job.
type Schedule struct {
	Heartbeat  string `toml:"heartbeat"`
	LowStock   string `toml:"low_stock"`
	LogArchive string `toml:"log_archive"`
	// Reminders is unscheduled unless set.
	Reminders string `toml:"order_reminders"`
}

// ScheduleFile is the on-disk layout:
//
//	[jobs]
//	heartbeat = "*/5 * * * *"
//	low_stock = "0 */12 * * *"
type ScheduleFile struct {
	Jobs Schedule `toml:"jobs"`
}

func DefaultSchedule() Schedule {
	return Schedule{
		Heartbeat:  DefaultHeartbeatCron,
		LowStock:   DefaultLowStockCron,
		LogArchive: DefaultLogArchiveCron,
	}
}

// LoadSchedule decodes a TOML schedule file over the defaults. An empty
// filename returns the defaults.
func LoadSchedule(filename string) (Schedule, error) {
	if filename == "" {
		return DefaultSchedule(), nil
	}
	file := ScheduleFile{}
	if _, err := toml.DecodeFile(filename, &file); err != nil {
		return Schedule{}, fmt.Errorf("failed to load schedule file: %w", err)
	}
	return file.Jobs.withDefaults(), nil
}

// DecodeSchedule parses TOML schedule text over the defaults.
func DecodeSchedule(data string) (Schedule, error) {
	file := ScheduleFile{}
	if _, err := toml.Decode(data, &file); err != nil {
		return Schedule{}, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return file.Jobs.withDefaults(), nil
}

func (s Schedule) withDefaults() Schedule {
	d := DefaultSchedule()
	if strings.TrimSpace(s.Heartbeat) == "" {
		s.Heartbeat = d.Heartbeat
	}
	if strings.TrimSpace(s.LowStock) == "" {
		s.LowStock = d.LowStock
	}
	if strings.TrimSpace(s.LogArchive) == "" {
		s.LogArchive = d.LogArchive
	}
	return s
}

// Enabled reports whether a schedule entry should be registered.
func Enabled(expr string) bool {
	expr = strings.TrimSpace(expr)
	return expr != "" && !strings.EqualFold(expr, "off")
}
