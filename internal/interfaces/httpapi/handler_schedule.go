package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fplmetric/fplmetric/internal/domain/schedule"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

type nextGameweekDTO struct {
	Gameweek gameweekDTO      `json:"gameweek"`
	Fixtures []fixtureViewDTO `json:"fixtures"`
}

func (h *Handler) GetNextGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextGameweek")
	defer span.End()

	gameweek, fixtures, err := h.scheduleService.NextGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get next gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nextGameweekDTO{
		Gameweek: gameweekToDTO(gameweek),
		Fixtures: fixtureViewsToDTO(fixtures),
	})
}

type upcomingFixtureDTO struct {
	Event      int64  `json:"event"`
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Difficulty int    `json:"difficulty"`
	KickoffAt  string `json:"kickoff_at"`
}

type teamUpcomingDTO struct {
	TeamName string               `json:"team_name"`
	Fixtures []upcomingFixtureDTO `json:"fixtures"`
}

func teamUpcomingToDTO(row schedule.TeamUpcoming) teamUpcomingDTO {
	fixtures := make([]upcomingFixtureDTO, 0, len(row.Fixtures))
	for _, fixture := range row.Fixtures {
		fixtures = append(fixtures, upcomingFixtureDTO{
			Event:      fixture.Event,
			Opponent:   fixture.Opponent,
			Home:       fixture.Home,
			Difficulty: fixture.Difficulty,
			KickoffAt:  fixture.KickoffAt.UTC().Format(time.RFC3339),
		})
	}

	return teamUpcomingDTO{
		TeamName: row.TeamName,
		Fixtures: fixtures,
	}
}

func (h *Handler) ListUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingFixtures")
	defer span.End()

	rows, err := h.scheduleService.UpcomingFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamUpcomingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, teamUpcomingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type fixtureTickerRequest struct {
	From int64 `validate:"required,gte=1,lte=38"`
	To   int64 `validate:"required,gte=1,lte=38,gtefield=From"`
}

type tickerEntryDTO struct {
	Event      int64  `json:"event"`
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Difficulty int    `json:"difficulty"`
}

type tickerRowDTO struct {
	TeamName    string           `json:"team_name"`
	Entries     []tickerEntryDTO `json:"entries"`
	DiffOverall int              `json:"diff_overall"`
	DiffAttack  int              `json:"diff_attack"`
	DiffDefence int              `json:"diff_defence"`
}

func tickerRowToDTO(row schedule.TickerRow) tickerRowDTO {
	entries := make([]tickerEntryDTO, 0, len(row.Entries))
	for _, entry := range row.Entries {
		entries = append(entries, tickerEntryDTO{
			Event:      entry.Event,
			Opponent:   entry.Opponent,
			Home:       entry.Home,
			Difficulty: entry.Difficulty,
		})
	}

	return tickerRowDTO{
		TeamName:    row.TeamName,
		Entries:     entries,
		DiffOverall: row.DiffOverall,
		DiffAttack:  row.DiffAttack,
		DiffDefence: row.DiffDefence,
	}
}

func (h *Handler) GetFixtureTicker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtureTicker")
	defer span.End()

	var req fixtureTickerRequest
	query := r.URL.Query()
	for _, field := range []struct {
		name   string
		target *int64
	}{
		{name: "from", target: &req.From},
		{name: "to", target: &req.To},
	} {
		raw := strings.TrimSpace(query.Get(field.name))
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, field.name))
			return
		}
		*field.target = parsed
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.scheduleService.FixtureTicker(ctx, req.From, req.To)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture ticker failed", "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tickerRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, tickerRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
