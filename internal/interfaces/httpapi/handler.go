package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (usecase.CycleReport, error)
}

type PlayerRefresher interface {
	Refresh(ctx context.Context) (usecase.PlayerRefreshResult, error)
}

type Handler struct {
	rosterService *usecase.RosterQueryService
	scoreService  *usecase.ScoreHistoryService
	cycleRunner   CycleRunner
	playerRefresh PlayerRefresher
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterQueryService,
	scoreService *usecase.ScoreHistoryService,
	cycleRunner CycleRunner,
	playerRefresh PlayerRefresher,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService: rosterService,
		scoreService:  scoreService,
		cycleRunner:   cycleRunner,
		playerRefresh: playerRefresh,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListRostersByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRostersByLeague")
	defer span.End()

	if h.rosterService == nil {
		writeError(ctx, w, fmt.Errorf("%w: roster service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	items, err := h.rosterService.ListByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rosters failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]rosterDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toRosterDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) LatestScoresByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LatestScoresByLeague")
	defer span.End()

	if h.scoreService == nil {
		writeError(ctx, w, fmt.Errorf("%w: score history service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	items, err := h.scoreService.LatestByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "latest scores failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toScoreRecordDTOs(items))
}

type scoreWindowQuery struct {
	From string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (h *Handler) ListScoresByManager(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoresByManager")
	defer span.End()

	if h.scoreService == nil {
		writeError(ctx, w, fmt.Errorf("%w: score history service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	query := scoreWindowQuery{
		From: strings.TrimSpace(r.URL.Query().Get("from")),
		To:   strings.TrimSpace(r.URL.Query().Get("to")),
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}
	from, to := parseWindowBound(query.From), parseWindowBound(query.To)

	managerID := strings.TrimSpace(r.PathValue("managerID"))
	items, err := h.scoreService.ListByManager(ctx, managerID, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "list manager scores failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toScoreRecordDTOs(items))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseWindowBound expects a value already accepted by the validator.
func parseWindowBound(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
