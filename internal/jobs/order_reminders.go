package jobs

import (
	"context"
	"fmt"
	"time"
)

const reminderWindow = 7 * 24 * time.Hour

type reminderOrder struct {
	ID        string `json:"id"`
	OrderDate string `json:"orderDate"`
	Status    string `json:"status"`
	Customer  *struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// OrderReminders logs pending orders from the last week
type OrderReminders struct {
	client *Client
	log    *LogFile
	now    func() time.Time
}

func NewOrderReminders(client *Client, log *LogFile) *OrderReminders {
	return &OrderReminders{client: client, log: log, now: time.Now}
}

func (r *OrderReminders) Name() string { return OrderRemindersJob }

// Run queries pendingOrders and falls back to the orders(where) shape when
// the first query returns nothing.
func (r *OrderReminders) Run(ctx context.Context) error {
	now := r.now()
	ts := stamp(now)
	since := now.Add(-reminderWindow).Format("2006-01-02")

	orders, err := r.fetch(ctx, since)
	if err != nil {
		r.log.Append(fmt.Sprintf("%s %s", ts, describeFailure(err)))
		return err
	}

	lines := []string{fmt.Sprintf("%s Processing %d pending orders", ts, len(orders))}
	for _, o := range orders {
		email := "N/A"
		if o.Customer != nil && o.Customer.Email != "" {
			email = o.Customer.Email
		}
		id := o.ID
		if id == "" {
			id = "N/A"
		}
		date := o.OrderDate
		if date == "" {
			date = "N/A"
		}
		lines = append(lines, fmt.Sprintf("%s Order ID: %s, Customer Email: %s, Order Date: %s", ts, id, email, date))
	}
	r.log.Append(lines...)
	return nil
}

func (r *OrderReminders) fetch(ctx context.Context, since string) ([]reminderOrder, error) {
	var orders []reminderOrder
	if err := r.client.Do(ctx, "pendingOrders", map[string]string{"sinceDate": since}, &orders); err != nil {
		return nil, err
	}
	if len(orders) > 0 {
		return orders, nil
	}

	vars := map[string]interface{}{
		"where": map[string]string{"orderDate_gte": since, "status": "pending"},
	}
	if err := r.client.Do(ctx, "orders", vars, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// describeFailure prefixes err by failure class
func describeFailure(err error) string {
	switch {
	case IsTimeout(err):
		return fmt.Sprintf("Timeout error: %v", err)
	case IsConnectionError(err):
		return fmt.Sprintf("Connection error: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
