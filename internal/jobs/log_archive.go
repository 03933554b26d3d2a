package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// ObjectUploader is the slice of object storage the archiver needs
type ObjectUploader interface {
	UploadFile(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

// LogArchiver copies each job log to object storage as <job>/<date>.log
type LogArchiver struct {
	store  ObjectUploader
	bucket string
	logs   map[string]*LogFile
	now    func() time.Time
}

func NewLogArchiver(store ObjectUploader, bucket string, logs map[string]*LogFile) *LogArchiver {
	return &LogArchiver{store: store, bucket: bucket, logs: logs, now: time.Now}
}

func (a *LogArchiver) Name() string { return LogArchiveJob }

// Run uploads every log that exists. Missing logs are skipped; the first
// upload failure is returned after all logs were attempted.
func (a *LogArchiver) Run(ctx context.Context) error {
	if err := a.store.EnsureBucketExists(ctx, a.bucket); err != nil {
		zlog.Error().Err(err).Str("bucket", a.bucket).Msg("log archive bucket unavailable")
		return fmt.Errorf("ensure bucket %s: %w", a.bucket, err)
	}

	names := make([]string, 0, len(a.logs))
	for name := range a.logs {
		names = append(names, name)
	}
	sort.Strings(names)

	date := a.now().Format("2006-01-02")
	var firstErr error
	uploaded := 0
	for _, name := range names {
		object := fmt.Sprintf("%s/%s.log", name, date)
		err := a.upload(ctx, a.logs[name].Path(), object)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			zlog.Error().Err(err).Str("object", object).Msg("log archive upload failed")
			if firstErr == nil {
				firstErr = err
			}
		default:
			uploaded++
		}
	}

	zlog.Info().Int("uploaded", uploaded).Str("bucket", a.bucket).Msg("job logs archived")
	return firstErr
}

func (a *LogArchiver) upload(ctx context.Context, path, object string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return a.store.UploadFile(ctx, a.bucket, object, f, info.Size(), "text/plain")
}
