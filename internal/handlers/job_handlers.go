package handlers

import (
	"net/http"
	"slices"
	"strconv"

	"crmhub/internal/caching"
	"crmhub/internal/jobs"

	"github.com/labstack/echo/v4"
	zlog "github.com/rs/zerolog/log"
)

const defaultRunHistory = 10

// JobHandlers exposes recorded job runs
type JobHandlers struct {
	runStore caching.RunStore
}

func NewJobHandlers(runStore caching.RunStore) *JobHandlers {
	if runStore == nil {
		runStore = caching.NoopRunStore{}
	}
	return &JobHandlers{runStore: runStore}
}

// JobRuns is the response of GET /jobs/:name/runs
type JobRuns struct {
	Job     string              `json:"job"`
	LastRun *caching.RunRecord  `json:"last_run"`
	Runs    []caching.RunRecord `json:"runs"`
}

// GetJobRuns returns the last run and the most recent history of one job.
// limit defaults to 10 and is capped by the store.
func (h *JobHandlers) GetJobRuns(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")
	if !slices.Contains(jobs.Names(), name) {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown job: "+name)
	}

	limit := defaultRunHistory
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	last, err := h.runStore.LastRun(ctx, name)
	if err != nil {
		zlog.Error().Err(err).Str("job", name).Msg("failed to read last job run")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Job run store unavailable")
	}
	runs, err := h.runStore.History(ctx, name, limit)
	if err != nil {
		zlog.Error().Err(err).Str("job", name).Msg("failed to read job history")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Job run store unavailable")
	}
	if runs == nil {
		runs = []caching.RunRecord{}
	}

	return c.JSON(http.StatusOK, JobRuns{Job: name, LastRun: last, Runs: runs})
}
