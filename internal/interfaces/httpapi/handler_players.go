package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

type playerMetricsDTO struct {
	GoalsPer90     float64 `json:"goals_per_90"`
	AssistsPer90   float64 `json:"assists_per_90"`
	XGPer90        float64 `json:"xg_per_90"`
	XAPer90        float64 `json:"xa_per_90"`
	XGIPer90       float64 `json:"xgi_per_90"`
	SavesPer90     float64 `json:"saves_per_90"`
	DefConPer90    float64 `json:"defensive_contribution_per_90"`
	PointsPerMatch float64 `json:"points_per_match"`
	BonusPerMatch  float64 `json:"bonus_per_match"`
}

type playerViewDTO struct {
	PlayerID          int64   `json:"player_id"`
	WebName           string  `json:"web_name"`
	FirstName         string  `json:"first_name,omitempty"`
	SecondName        string  `json:"second_name,omitempty"`
	TeamName          string  `json:"team_name"`
	Position          string  `json:"position"`
	Status            string  `json:"status,omitempty"`
	News              string  `json:"news,omitempty"`
	ChanceOfPlaying   int64   `json:"chance_of_playing"`
	Cost              float64 `json:"cost"`
	SelectedByPercent float64 `json:"selected_by_percent"`
	TotalPoints       int64   `json:"total_points"`
	PointsPerGame     float64 `json:"points_per_game"`
	Minutes           int64   `json:"minutes"`
	Starts            int64   `json:"starts"`
	GoalsScored       int64   `json:"goals_scored"`
	Assists           int64   `json:"assists"`
	CleanSheets       int64   `json:"clean_sheets"`
	GoalsConceded     int64   `json:"goals_conceded"`
	YellowCards       int64   `json:"yellow_cards"`
	RedCards          int64   `json:"red_cards"`
	Saves             int64   `json:"saves"`
	Bonus             int64   `json:"bonus"`
	BPS               int64   `json:"bps"`
	ICTIndex          float64 `json:"ict_index"`
	ExpectedGoals     float64 `json:"expected_goals"`
	ExpectedAssists   float64 `json:"expected_assists"`
	ExpectedGoalInv   float64 `json:"expected_goal_involvements"`
	ExpectedConceded  float64 `json:"expected_goals_conceded"`
	DefCon            int64   `json:"defensive_contribution"`
	Tackles           int64   `json:"tackles"`
	Recoveries        int64   `json:"recoveries"`
	CBI               int64   `json:"cbi"`
	Form              float64 `json:"form"`
	ExpectedPoints    float64 `json:"ep_next"`

	Metrics playerMetricsDTO `json:"metrics"`
}

func playerViewToDTO(view snapshot.PlayerView) playerViewDTO {
	return playerViewDTO{
		PlayerID:          view.PlayerID,
		WebName:           view.WebName,
		FirstName:         view.FirstName,
		SecondName:        view.SecondName,
		TeamName:          view.TeamName,
		Position:          string(view.Position),
		Status:            view.Status,
		News:              view.News,
		ChanceOfPlaying:   view.ChanceOfPlaying,
		Cost:              view.Cost,
		SelectedByPercent: view.SelectedByPercent,
		TotalPoints:       view.TotalPoints,
		PointsPerGame:     view.PointsPerGame,
		Minutes:           view.Minutes,
		Starts:            view.Starts,
		GoalsScored:       view.GoalsScored,
		Assists:           view.Assists,
		CleanSheets:       view.CleanSheets,
		GoalsConceded:     view.GoalsConceded,
		YellowCards:       view.YellowCards,
		RedCards:          view.RedCards,
		Saves:             view.Saves,
		Bonus:             view.Bonus,
		BPS:               view.BPS,
		ICTIndex:          view.ICTIndex,
		ExpectedGoals:     view.ExpectedGoals,
		ExpectedAssists:   view.ExpectedAssists,
		ExpectedGoalInv:   view.ExpectedGoalInvolvements,
		ExpectedConceded:  view.ExpectedGoalsConceded,
		DefCon:            view.DefensiveContribution,
		Tackles:           view.Tackles,
		Recoveries:        view.Recoveries,
		CBI:               view.CBI,
		Form:              view.Form,
		ExpectedPoints:    view.ExpectedPointsNext,
		Metrics: playerMetricsDTO{
			GoalsPer90:     view.Metrics.GoalsPer90,
			AssistsPer90:   view.Metrics.AssistsPer90,
			XGPer90:        view.Metrics.XGPer90,
			XAPer90:        view.Metrics.XAPer90,
			XGIPer90:       view.Metrics.XGIPer90,
			SavesPer90:     view.Metrics.SavesPer90,
			DefConPer90:    view.Metrics.DefConPer90,
			PointsPerMatch: view.Metrics.PointsPerMatch,
			BonusPerMatch:  view.Metrics.BonusPerMatch,
		},
	}
}

type listPlayersRequest struct {
	Positions    []string `validate:"omitempty,dive,oneof=GKP DEF MID FWD"`
	MaxCost      float64  `validate:"omitempty,gte=0"`
	MaxOwnership float64  `validate:"omitempty,gte=0,lte=100"`
	MinMinutes   int64    `validate:"omitempty,gte=0"`
}

func parseListPlayersRequest(r *http.Request) (listPlayersRequest, error) {
	var req listPlayersRequest
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("position")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			req.Positions = append(req.Positions, part)
		}
	}

	var err error
	if raw := strings.TrimSpace(query.Get("max_cost")); raw != "" {
		if req.MaxCost, err = strconv.ParseFloat(raw, 64); err != nil {
			return req, fmt.Errorf("%w: max_cost must be a number", usecase.ErrInvalidInput)
		}
	}
	if raw := strings.TrimSpace(query.Get("max_ownership")); raw != "" {
		if req.MaxOwnership, err = strconv.ParseFloat(raw, 64); err != nil {
			return req, fmt.Errorf("%w: max_ownership must be a number", usecase.ErrInvalidInput)
		}
	}
	if raw := strings.TrimSpace(query.Get("min_minutes")); raw != "" {
		if req.MinMinutes, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return req, fmt.Errorf("%w: min_minutes must be an integer", usecase.ErrInvalidInput)
		}
	}

	return req, nil
}

func (req listPlayersRequest) matches(view snapshot.PlayerView) bool {
	if len(req.Positions) > 0 {
		found := false
		for _, position := range req.Positions {
			if string(view.Position) == position {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if req.MaxCost > 0 && view.Cost > req.MaxCost {
		return false
	}
	if req.MaxOwnership > 0 && view.SelectedByPercent > req.MaxOwnership {
		return false
	}
	if req.MinMinutes > 0 && view.Minutes < req.MinMinutes {
		return false
	}
	return true
}

func (h *Handler) ListCurrentPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCurrentPlayers")
	defer span.End()

	req, err := parseListPlayersRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.statsService.CurrentState(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list current players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerViewDTO, 0, len(views))
	for _, view := range views {
		if !req.matches(view) {
			continue
		}
		items = append(items, playerViewToDTO(view))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type priceChangeDTO struct {
	PlayerID          int64   `json:"player_id"`
	WebName           string  `json:"web_name"`
	TeamName          string  `json:"team_name"`
	Position          string  `json:"position"`
	Cost              float64 `json:"cost"`
	Delta             float64 `json:"delta"`
	SelectedByPercent float64 `json:"selected_by_percent"`
}

func priceChangeToDTO(change snapshot.PriceChange) priceChangeDTO {
	return priceChangeDTO{
		PlayerID:          change.PlayerID,
		WebName:           change.WebName,
		TeamName:          change.TeamName,
		Position:          string(change.Position),
		Cost:              change.Cost,
		Delta:             change.Delta,
		SelectedByPercent: change.SelectedByPercent,
	}
}

func (h *Handler) ListPriceChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPriceChanges")
	defer span.End()

	includeUnchanged := false
	if raw := strings.TrimSpace(r.URL.Query().Get("include_unchanged")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: include_unchanged must be a boolean", usecase.ErrInvalidInput))
			return
		}
		includeUnchanged = parsed
	}

	changes, err := h.statsService.PriceChanges(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list price changes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]priceChangeDTO, 0, len(changes))
	for _, change := range changes {
		if change.Delta == 0 && !includeUnchanged {
			continue
		}
		items = append(items, priceChangeToDTO(change))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
