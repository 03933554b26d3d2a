package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// ListOptions carries ordering and paging for list queries.
// OrderBy tokens are field names, a leading "-" means descending.
type ListOptions struct {
	OrderBy []string `json:"order_by,omitempty"`
	First   int      `json:"first,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}

// Normalize clamps paging values to the supported range.
func (o *ListOptions) Normalize() {
	if o.First <= 0 {
		o.First = DefaultPageSize
	}
	if o.First > MaxPageSize {
		o.First = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// DateBound is a filter bound given either as a calendar date (2006-01-02)
// or as an RFC3339 timestamp.
type DateBound struct {
	Time     time.Time
	DateOnly bool
}

func ParseDateBound(s string) (*DateBound, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &DateBound{Time: t, DateOnly: true}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return &DateBound{Time: t}, nil
}

// Lower is the inclusive lower bound.
func (d DateBound) Lower() time.Time {
	return d.Time
}

// UpperExclusive is the exclusive upper bound at storage (microsecond)
// precision. A date-only bound covers the whole day.
func (d DateBound) UpperExclusive() time.Time {
	if d.DateOnly {
		return d.Time.AddDate(0, 0, 1)
	}
	return d.Time.Add(time.Microsecond)
}

func (d *DateBound) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDateBound(s)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func (d DateBound) MarshalJSON() ([]byte, error) {
	if d.DateOnly {
		return json.Marshal(d.Time.Format("2006-01-02"))
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}
