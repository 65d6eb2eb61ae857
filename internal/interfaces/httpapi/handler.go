package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fplmetric/fplmetric/internal/domain/schedule"
	"github.com/fplmetric/fplmetric/internal/platform/logging"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

type Handler struct {
	statsService     *usecase.StatsService
	scheduleService  *usecase.ScheduleService
	dashboardService *usecase.DashboardService
	collectorService *usecase.CollectorService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	statsService *usecase.StatsService,
	scheduleService *usecase.ScheduleService,
	dashboardService *usecase.DashboardService,
	collectorService *usecase.CollectorService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		statsService:     statsService,
		scheduleService:  scheduleService,
		dashboardService: dashboardService,
		collectorService: collectorService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type dashboardDTO struct {
	Players      []playerViewDTO   `json:"players"`
	Movers       []priceChangeDTO  `json:"movers"`
	NextGameweek *gameweekDTO      `json:"next_gameweek,omitempty"`
	Fixtures     []fixtureViewDTO  `json:"fixtures,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	dashboard, err := h.dashboardService.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	players := make([]playerViewDTO, 0, len(dashboard.Players))
	for _, view := range dashboard.Players {
		players = append(players, playerViewToDTO(view))
	}
	movers := make([]priceChangeDTO, 0, len(dashboard.Movers))
	for _, change := range dashboard.Movers {
		movers = append(movers, priceChangeToDTO(change))
	}

	payload := dashboardDTO{
		Players:     players,
		Movers:      movers,
		Fixtures:    fixtureViewsToDTO(dashboard.Fixtures),
		GeneratedAt: dashboard.GeneratedAt,
	}
	if dashboard.NextGameweek != nil {
		gw := gameweekToDTO(*dashboard.NextGameweek)
		payload.NextGameweek = &gw
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}

type gameweekDTO struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	DeadlineAt time.Time `json:"deadline_at"`
}

func gameweekToDTO(gw schedule.Gameweek) gameweekDTO {
	return gameweekDTO{
		ID:         gw.ID,
		Name:       gw.Name,
		DeadlineAt: gw.DeadlineAt,
	}
}

type fixtureViewDTO struct {
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	KickoffAt time.Time `json:"kickoff_at"`
}

func fixtureViewsToDTO(views []schedule.FixtureView) []fixtureViewDTO {
	out := make([]fixtureViewDTO, 0, len(views))
	for _, view := range views {
		out = append(out, fixtureViewDTO{
			Home:      view.HomeName,
			Away:      view.AwayName,
			KickoffAt: view.KickoffAt,
		})
	}
	return out
}
