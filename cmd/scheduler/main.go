package main

import (
	"os"
	"os/signal"
	"syscall"

	zlog "github.com/rs/zerolog/log"

	"crmhub/internal/caching"
	"crmhub/internal/config"
	"crmhub/internal/jobs"
	"crmhub/internal/jobs/background"
	"crmhub/internal/services"
)

type scheduledJob struct {
	cron string
	job  jobs.Job
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()

	schedule, err := config.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load schedule")
	}

	var runStore caching.RunStore = caching.NoopRunStore{}
	if cfg.Redis.Enabled() {
		runStore = caching.NewRedisRunStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	var uploader jobs.ObjectUploader
	if cfg.Minio.Enabled() {
		minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			zlog.Warn().Err(err).Msg("minio client unavailable, log archiving disabled")
		} else {
			uploader = minioSvc
		}
	}

	client := jobs.NewClient(cfg.CRMEndpoint, cfg.RequestTimeout)
	set := jobs.NewSet(client, jobs.LogPaths{
		Heartbeat:      cfg.HeartbeatLog,
		LowStock:       cfg.LowStockLog,
		OrderReminders: cfg.OrderRemindersLog,
	}, uploader, cfg.Minio.ArchiveBucket)

	scheduler, err := background.NewJobScheduler(runStore, cfg.RequestTimeout)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create scheduler")
	}

	entries := []scheduledJob{
		{schedule.Heartbeat, set.Heartbeat},
		{schedule.LowStock, set.LowStock},
		{schedule.Reminders, set.OrderReminders},
	}
	if set.LogArchive != nil {
		entries = append(entries, scheduledJob{schedule.LogArchive, set.LogArchive})
	}
	for _, entry := range entries {
		if !config.Enabled(entry.cron) {
			zlog.Info().Str("job", entry.job.Name()).Msg("job not scheduled")
			continue
		}
		if err := scheduler.Schedule(entry.cron, entry.job); err != nil {
			zlog.Fatal().Err(err).Msg("failed to schedule job")
		}
	}

	scheduler.Start()
	for _, status := range scheduler.GetJobStatus() {
		zlog.Info().Str("job", status.Name).Time("next_run", status.NextRun).Msg("job pending")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := scheduler.Stop(); err != nil {
		zlog.Error().Err(err).Msg("scheduler shutdown failed")
	}
}
