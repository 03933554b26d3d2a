package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

const (
	keyPrefix      = "crm:jobs"
	historyLength  = 50
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// RunRecord is the outcome of one job execution
type RunRecord struct {
	Job        string        `json:"job"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	TotalRuns  int64         `json:"total_runs,omitempty"`
	TotalFails int64         `json:"total_fails,omitempty"`
}

// RunStore keeps the last outcome and a short history per job
type RunStore interface {
	RecordRun(ctx context.Context, rec RunRecord) error
	LastRun(ctx context.Context, job string) (*RunRecord, error)
	History(ctx context.Context, job string, limit int) ([]RunRecord, error)
	Ping(ctx context.Context) error
}

func lastRunKey(job string) string    { return fmt.Sprintf("%s:last_run:%s", keyPrefix, job) }
func historyKey(job string) string    { return fmt.Sprintf("%s:history:%s", keyPrefix, job) }
func counterKey(job, s string) string { return fmt.Sprintf("%s:count:%s:%s", keyPrefix, job, s) }

type redisRunStore struct {
	client *redis.Client
}

func NewRedisRunStore(addr, password string, db int) RunStore {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		zlog.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		zlog.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}

	return &redisRunStore{client: client}
}

func (r *redisRunStore) RecordRun(ctx context.Context, rec RunRecord) error {
	total, err := r.client.Incr(ctx, counterKey(rec.Job, "runs")).Result()
	if err != nil {
		return err
	}
	rec.TotalRuns = total
	if rec.Status != RunStatusOK {
		if rec.TotalFails, err = r.client.Incr(ctx, counterKey(rec.Job, "fails")).Result(); err != nil {
			return err
		}
	} else {
		// a missing key reads as zero
		fails, err := r.client.Get(ctx, counterKey(rec.Job, "fails")).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		rec.TotalFails = fails
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, lastRunKey(rec.Job), data, 0)
	pipe.LPush(ctx, historyKey(rec.Job), data)
	pipe.LTrim(ctx, historyKey(rec.Job), 0, historyLength-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRunStore) LastRun(ctx context.Context, job string) (*RunRecord, error) {
	data, err := r.client.Get(ctx, lastRunKey(job)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *redisRunStore) History(ctx context.Context, job string, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > historyLength {
		limit = historyLength
	}
	entries, err := r.client.LRange(ctx, historyKey(job), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	records := make([]RunRecord, 0, len(entries))
	for _, entry := range entries {
		var rec RunRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *redisRunStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NoopRunStore discards records; used when Redis is not configured
type NoopRunStore struct{}

func (NoopRunStore) RecordRun(context.Context, RunRecord) error { return nil }

func (NoopRunStore) LastRun(context.Context, string) (*RunRecord, error) { return nil, nil }

func (NoopRunStore) History(context.Context, string, int) ([]RunRecord, error) { return nil, nil }

func (NoopRunStore) Ping(context.Context) error { return nil }
