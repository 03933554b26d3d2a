package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"crmhub/internal/caching"
	"crmhub/internal/config"
	"crmhub/internal/jobs"
	"crmhub/internal/jobs/background"
	"crmhub/internal/services"
)

// Runs a single job once, for crontab-style external triggers:
//
//	jobs heartbeat|lowstock|reminders|archive
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <%s>\n", os.Args[0], strings.Join(jobs.Names(), "|"))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()

	var runStore caching.RunStore = caching.NoopRunStore{}
	if cfg.Redis.Enabled() {
		runStore = caching.NewRedisRunStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	var uploader jobs.ObjectUploader
	if cfg.Minio.Enabled() {
		minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to create minio client")
		}
		uploader = minioSvc
	}

	client := jobs.NewClient(cfg.CRMEndpoint, cfg.RequestTimeout)
	set := jobs.NewSet(client, jobs.LogPaths{
		Heartbeat:      cfg.HeartbeatLog,
		LowStock:       cfg.LowStockLog,
		OrderReminders: cfg.OrderRemindersLog,
	}, uploader, cfg.Minio.ArchiveBucket)

	job, err := set.Lookup(os.Args[1])
	if err != nil {
		zlog.Fatal().Err(err).Msg("cannot run job")
	}

	// failures are already in the job log; the exit status stays zero
	_ = background.Execute(context.Background(), runStore, cfg.RequestTimeout, job)
	fmt.Println("Job finished:", job.Name())
}
