package usecase

import (
	"errors"

	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
)

// ErrMissingPlayerID marks a raw record without a usable player identifier.
// Such records are dropped from the batch; they are never coerced to a
// sentinel id that could collide with a real player.
var ErrMissingPlayerID = errors.New("raw record has no player id")

// Upstream field aliases, newest name first. The FPL API renames fields
// between seasons without versioning, so the adapter tries each in order
// before falling back to the zero default.
var (
	playerIDKeys    = []string{"id", "element"}
	defConKeys      = []string{"defensive_contribution", "def_cons"}
	tackleKeys      = []string{"tackles", "tackles_won"}
	recoveryKeys    = []string{"recoveries", "ball_recoveries"}
	cbiKeys         = []string{"clearances_blocks_interceptions", "cbi"}
	matchesKeys     = []string{"matches_played", "appearances", "starts"}
	xgKeys          = []string{"expected_goals", "xg"}
	xaKeys          = []string{"expected_assists", "xa"}
	xgiKeys         = []string{"expected_goal_involvements", "xgi"}
	xgcKeys         = []string{"expected_goals_conceded", "xgc"}
)

// AdaptPlayerRecord normalizes one raw upstream record into a snapshot row.
// Pure function: same record in, same row out. Every target field falls back
// to an explicit default when the source field is absent; only the player id
// is missing-is-fatal. Price arrives in integer tenths of a million and is
// rescaled here, at the boundary, not downstream.
func AdaptPlayerRecord(rec RawRecord) (snapshot.PlayerSnapshot, error) {
	playerID := rec.GetInt64(playerIDKeys...)
	if playerID <= 0 {
		return snapshot.PlayerSnapshot{}, ErrMissingPlayerID
	}

	row := snapshot.PlayerSnapshot{
		PlayerID:   playerID,
		WebName:    rec.GetString("web_name"),
		FirstName:  rec.GetString("first_name"),
		SecondName: rec.GetString("second_name"),
		TeamCode:   rec.GetInt64("team"),
		PositionID: rec.GetInt64("element_type"),

		Status: rec.GetString("status"),
		News:   rec.GetString("news"),

		Cost:              rec.GetFloat("now_cost") / 10.0,
		SelectedByPercent: rec.GetFloat("selected_by_percent"),
		TransfersInEvent:  rec.GetInt64("transfers_in_event"),
		TransfersOutEvent: rec.GetInt64("transfers_out_event"),
		CostChangeEvent:   rec.GetInt64("cost_change_event"),

		TotalPoints:   rec.GetInt64("total_points"),
		PointsPerGame: rec.GetFloat("points_per_game"),
		Minutes:       rec.GetInt64("minutes"),
		Starts:        rec.GetInt64("starts"),
		MatchesPlayed: rec.GetInt64(matchesKeys...),

		GoalsScored:     rec.GetInt64("goals_scored"),
		Assists:         rec.GetInt64("assists"),
		CleanSheets:     rec.GetInt64("clean_sheets"),
		GoalsConceded:   rec.GetInt64("goals_conceded"),
		OwnGoals:        rec.GetInt64("own_goals"),
		PenaltiesSaved:  rec.GetInt64("penalties_saved"),
		PenaltiesMissed: rec.GetInt64("penalties_missed"),
		YellowCards:     rec.GetInt64("yellow_cards"),
		RedCards:        rec.GetInt64("red_cards"),
		Saves:           rec.GetInt64("saves"),
		Bonus:           rec.GetInt64("bonus"),
		BPS:             rec.GetInt64("bps"),

		Influence:  rec.GetFloat("influence"),
		Creativity: rec.GetFloat("creativity"),
		Threat:     rec.GetFloat("threat"),
		ICTIndex:   rec.GetFloat("ict_index"),

		ExpectedGoals:            rec.GetFloat(xgKeys...),
		ExpectedAssists:          rec.GetFloat(xaKeys...),
		ExpectedGoalInvolvements: rec.GetFloat(xgiKeys...),
		ExpectedGoalsConceded:    rec.GetFloat(xgcKeys...),

		DefensiveContribution: rec.GetInt64(defConKeys...),
		Tackles:               rec.GetInt64(tackleKeys...),
		Recoveries:            rec.GetInt64(recoveryKeys...),
		CBI:                   rec.GetInt64(cbiKeys...),

		Form:               rec.GetFloat("form"),
		ValueForm:          rec.GetFloat("value_form"),
		ValueSeason:        rec.GetFloat("value_season"),
		ExpectedPointsNext: rec.GetFloat("ep_next"),
	}

	row.Position = snapshot.PositionFromTypeID(row.PositionID)

	// Upstream sends null for fully fit players; 100 is the documented
	// "no doubt" value, so absence defaults to 100 rather than 0.
	row.ChanceOfPlaying = 100
	if rec.Has("chance_of_playing_next_round") {
		row.ChanceOfPlaying = rec.GetInt64("chance_of_playing_next_round")
	}

	return row, nil
}
