package jobs

import (
	"context"
	"fmt"
	"time"
)

const heartbeatLayout = "02/01/2006-15:04:05"

// Heartbeat appends an alive line and then checks the endpoint answers
type Heartbeat struct {
	client *Client
	log    *LogFile
	now    func() time.Time
}

func NewHeartbeat(client *Client, log *LogFile) *Heartbeat {
	return &Heartbeat{client: client, log: log, now: time.Now}
}

func (h *Heartbeat) Name() string { return HeartbeatJob }

// Run always writes the alive line first. A nil client skips the endpoint
// check.
func (h *Heartbeat) Run(ctx context.Context) error {
	ts := h.now().Format(heartbeatLayout)
	h.log.Append(ts + " CRM is alive")

	if h.client == nil {
		return nil
	}

	var hello string
	if err := h.client.Do(ctx, "hello", nil, &hello); err != nil {
		h.log.Append(fmt.Sprintf("%s GraphQL endpoint check failed: %v", ts, err))
		return err
	}
	h.log.Append(fmt.Sprintf("%s GraphQL endpoint responsive: %s", ts, hello))
	return nil
}
