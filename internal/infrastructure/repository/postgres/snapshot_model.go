package postgres

import (
	"time"

	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
)

// playerSnapshotRowModel carries every writable column of player_snapshots.
// The surrogate id is assigned by the database and lives on the table model.
type playerSnapshotRowModel struct {
	SnapshotTime time.Time `db:"snapshot_time"`
	PlayerID     int64     `db:"player_id"`

	WebName    string `db:"web_name"`
	FirstName  string `db:"first_name"`
	SecondName string `db:"second_name"`
	TeamCode   int64  `db:"team_code"`
	TeamName   string `db:"team_name"`
	PositionID int64  `db:"position_id"`
	Position   string `db:"position"`

	Status          string `db:"status"`
	News            string `db:"news"`
	ChanceOfPlaying int64  `db:"chance_of_playing"`

	NowCost           float64 `db:"now_cost"`
	SelectedByPercent float64 `db:"selected_by_percent"`
	TransfersInEvent  int64   `db:"transfers_in_event"`
	TransfersOutEvent int64   `db:"transfers_out_event"`
	CostChangeEvent   int64   `db:"cost_change_event"`

	TotalPoints   int64   `db:"total_points"`
	PointsPerGame float64 `db:"points_per_game"`
	Minutes       int64   `db:"minutes"`
	Starts        int64   `db:"starts"`
	MatchesPlayed int64   `db:"matches_played"`

	GoalsScored     int64 `db:"goals_scored"`
	Assists         int64 `db:"assists"`
	CleanSheets     int64 `db:"clean_sheets"`
	GoalsConceded   int64 `db:"goals_conceded"`
	OwnGoals        int64 `db:"own_goals"`
	PenaltiesSaved  int64 `db:"penalties_saved"`
	PenaltiesMissed int64 `db:"penalties_missed"`
	YellowCards     int64 `db:"yellow_cards"`
	RedCards        int64 `db:"red_cards"`
	Saves           int64 `db:"saves"`
	Bonus           int64 `db:"bonus"`
	BPS             int64 `db:"bps"`

	Influence  float64 `db:"influence"`
	Creativity float64 `db:"creativity"`
	Threat     float64 `db:"threat"`
	ICTIndex   float64 `db:"ict_index"`

	ExpectedGoals            float64 `db:"expected_goals"`
	ExpectedAssists          float64 `db:"expected_assists"`
	ExpectedGoalInvolvements float64 `db:"expected_goal_involvements"`
	ExpectedGoalsConceded    float64 `db:"expected_goals_conceded"`

	DefensiveContribution int64 `db:"defensive_contribution"`
	Tackles               int64 `db:"tackles"`
	Recoveries            int64 `db:"recoveries"`
	CBI                   int64 `db:"cbi"`

	Form               float64 `db:"form"`
	ValueForm          float64 `db:"value_form"`
	ValueSeason        float64 `db:"value_season"`
	ExpectedPointsNext float64 `db:"ep_next"`
}

type playerSnapshotTableModel struct {
	ID int64 `db:"id"`
	playerSnapshotRowModel
}

type rankedSnapshotTableModel struct {
	playerSnapshotTableModel
	Rank int `db:"rn"`
}

func rowModelFromSnapshot(s snapshot.PlayerSnapshot) playerSnapshotRowModel {
	return playerSnapshotRowModel{
		SnapshotTime:             s.SnapshotTime,
		PlayerID:                 s.PlayerID,
		WebName:                  s.WebName,
		FirstName:                s.FirstName,
		SecondName:               s.SecondName,
		TeamCode:                 s.TeamCode,
		TeamName:                 s.TeamName,
		PositionID:               s.PositionID,
		Position:                 string(s.Position),
		Status:                   s.Status,
		News:                     s.News,
		ChanceOfPlaying:          s.ChanceOfPlaying,
		NowCost:                  s.Cost,
		SelectedByPercent:        s.SelectedByPercent,
		TransfersInEvent:         s.TransfersInEvent,
		TransfersOutEvent:        s.TransfersOutEvent,
		CostChangeEvent:          s.CostChangeEvent,
		TotalPoints:              s.TotalPoints,
		PointsPerGame:            s.PointsPerGame,
		Minutes:                  s.Minutes,
		Starts:                   s.Starts,
		MatchesPlayed:            s.MatchesPlayed,
		GoalsScored:              s.GoalsScored,
		Assists:                  s.Assists,
		CleanSheets:              s.CleanSheets,
		GoalsConceded:            s.GoalsConceded,
		OwnGoals:                 s.OwnGoals,
		PenaltiesSaved:           s.PenaltiesSaved,
		PenaltiesMissed:          s.PenaltiesMissed,
		YellowCards:              s.YellowCards,
		RedCards:                 s.RedCards,
		Saves:                    s.Saves,
		Bonus:                    s.Bonus,
		BPS:                      s.BPS,
		Influence:                s.Influence,
		Creativity:               s.Creativity,
		Threat:                   s.Threat,
		ICTIndex:                 s.ICTIndex,
		ExpectedGoals:            s.ExpectedGoals,
		ExpectedAssists:          s.ExpectedAssists,
		ExpectedGoalInvolvements: s.ExpectedGoalInvolvements,
		ExpectedGoalsConceded:    s.ExpectedGoalsConceded,
		DefensiveContribution:    s.DefensiveContribution,
		Tackles:                  s.Tackles,
		Recoveries:               s.Recoveries,
		CBI:                      s.CBI,
		Form:                     s.Form,
		ValueForm:                s.ValueForm,
		ValueSeason:              s.ValueSeason,
		ExpectedPointsNext:       s.ExpectedPointsNext,
	}
}

func (m playerSnapshotTableModel) toSnapshot() snapshot.PlayerSnapshot {
	return snapshot.PlayerSnapshot{
		SnapshotTime:             m.SnapshotTime,
		PlayerID:                 m.PlayerID,
		WebName:                  m.WebName,
		FirstName:                m.FirstName,
		SecondName:               m.SecondName,
		TeamCode:                 m.TeamCode,
		TeamName:                 m.TeamName,
		PositionID:               m.PositionID,
		Position:                 snapshot.Position(m.Position),
		Status:                   m.Status,
		News:                     m.News,
		ChanceOfPlaying:          m.ChanceOfPlaying,
		Cost:                     m.NowCost,
		SelectedByPercent:        m.SelectedByPercent,
		TransfersInEvent:         m.TransfersInEvent,
		TransfersOutEvent:        m.TransfersOutEvent,
		CostChangeEvent:          m.CostChangeEvent,
		TotalPoints:              m.TotalPoints,
		PointsPerGame:            m.PointsPerGame,
		Minutes:                  m.Minutes,
		Starts:                   m.Starts,
		MatchesPlayed:            m.MatchesPlayed,
		GoalsScored:              m.GoalsScored,
		Assists:                  m.Assists,
		CleanSheets:              m.CleanSheets,
		GoalsConceded:            m.GoalsConceded,
		OwnGoals:                 m.OwnGoals,
		PenaltiesSaved:           m.PenaltiesSaved,
		PenaltiesMissed:          m.PenaltiesMissed,
		YellowCards:              m.YellowCards,
		RedCards:                 m.RedCards,
		Saves:                    m.Saves,
		Bonus:                    m.Bonus,
		BPS:                      m.BPS,
		Influence:                m.Influence,
		Creativity:               m.Creativity,
		Threat:                   m.Threat,
		ICTIndex:                 m.ICTIndex,
		ExpectedGoals:            m.ExpectedGoals,
		ExpectedAssists:          m.ExpectedAssists,
		ExpectedGoalInvolvements: m.ExpectedGoalInvolvements,
		ExpectedGoalsConceded:    m.ExpectedGoalsConceded,
		DefensiveContribution:    m.DefensiveContribution,
		Tackles:                  m.Tackles,
		Recoveries:               m.Recoveries,
		CBI:                      m.CBI,
		Form:                     m.Form,
		ValueForm:                m.ValueForm,
		ValueSeason:              m.ValueSeason,
		ExpectedPointsNext:       m.ExpectedPointsNext,
	}
}
