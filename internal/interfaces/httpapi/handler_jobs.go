package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/league-tracker/internal/usecase"
)

func (h *Handler) RunSyncCycleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncCycleJob")
	defer span.End()

	if h.cycleRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync cycle runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	started := time.Now()
	report, err := h.cycleRunner.RunCycle(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrCycleInProgress) {
			h.logger.InfoContext(ctx, "sync cycle job rejected, cycle in progress")
		} else {
			h.logger.WarnContext(ctx, "run sync cycle job failed",
				"duration_ms", time.Since(started).Milliseconds(),
				"error", err,
			)
		}
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync cycle job finished",
		"run_id", report.RunID,
		"league_id", report.LeagueID,
		"week", report.Week,
	)
	writeSuccess(ctx, w, http.StatusOK, toCycleReportDTO(report))
}

func (h *Handler) RunRefreshPlayersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshPlayersJob")
	defer span.End()

	if h.playerRefresh == nil {
		writeError(ctx, w, fmt.Errorf("%w: player directory is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.playerRefresh.Refresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh players job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerRefreshDTO{
		Fetched:  result.Fetched,
		Upserted: result.Upserted,
		Skipped:  result.Skipped,
	})
}
