package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type updatedProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type lowStockResult struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	Errors          []string         `json:"errors"`
	UpdatedProducts []updatedProduct `json:"updatedProducts"`
}

// ErrMutationFailed is returned when the endpoint answered with success=false
var ErrMutationFailed = errors.New("mutation reported failure")

// LowStockUpdater triggers the restock mutation and records what changed
type LowStockUpdater struct {
	client *Client
	log    *LogFile
	now    func() time.Time
}

func NewLowStockUpdater(client *Client, log *LogFile) *LowStockUpdater {
	return &LowStockUpdater{client: client, log: log, now: time.Now}
}

func (u *LowStockUpdater) Name() string { return LowStockJob }

func (u *LowStockUpdater) Run(ctx context.Context) error {
	ts := stamp(u.now())

	var result lowStockResult
	if err := u.client.Do(ctx, "updateLowStockProducts", nil, &result); err != nil {
		u.log.Append(fmt.Sprintf("%s Error executing low-stock update: %v", ts, err))
		return err
	}

	message := result.Message
	if message == "" {
		message = "No message returned"
	}
	lines := []string{fmt.Sprintf("%s %s", ts, message)}

	if !result.Success {
		lines = append(lines, fmt.Sprintf("%s Mutation failed: %s", ts, message))
		u.log.Append(lines...)
		return fmt.Errorf("%w: %s", ErrMutationFailed, message)
	}

	lines = append(lines, fmt.Sprintf("%s Updated %d products:", ts, len(result.UpdatedProducts)))
	for _, p := range result.UpdatedProducts {
		lines = append(lines, fmt.Sprintf("%s - %s: New stock level: %d", ts, p.Name, p.Stock))
	}
	u.log.Append(lines...)
	return nil
}
