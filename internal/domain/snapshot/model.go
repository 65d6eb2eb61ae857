package snapshot

import (
	"fmt"
	"time"
)

// Position represents football position categories shown on the dashboard.
type Position string

const (
	PositionGoalkeeper Position = "GKP"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
	PositionUnknown    Position = "UNK"
)

// PositionFromTypeID maps the upstream element_type identifier to a position.
func PositionFromTypeID(typeID int64) Position {
	switch typeID {
	case 1:
		return PositionGoalkeeper
	case 2:
		return PositionDefender
	case 3:
		return PositionMidfielder
	case 4:
		return PositionForward
	default:
		return PositionUnknown
	}
}

// PlayerSnapshot is one immutable, timestamped record of a player's
// attribute values at one collection run. Rows are only ever appended;
// "current" values are reconstructed by taking the newest row per player.
type PlayerSnapshot struct {
	SnapshotTime time.Time
	PlayerID     int64

	WebName    string
	FirstName  string
	SecondName string
	TeamCode   int64
	TeamName   string
	PositionID int64
	Position   Position

	Status          string
	News            string
	ChanceOfPlaying int64

	Cost              float64
	SelectedByPercent float64
	TransfersInEvent  int64
	TransfersOutEvent int64
	CostChangeEvent   int64

	TotalPoints   int64
	PointsPerGame float64
	Minutes       int64
	Starts        int64
	MatchesPlayed int64

	GoalsScored      int64
	Assists          int64
	CleanSheets      int64
	GoalsConceded    int64
	OwnGoals         int64
	PenaltiesSaved   int64
	PenaltiesMissed  int64
	YellowCards      int64
	RedCards         int64
	Saves            int64
	Bonus            int64
	BPS              int64

	Influence  float64
	Creativity float64
	Threat     float64
	ICTIndex   float64

	ExpectedGoals            float64
	ExpectedAssists          float64
	ExpectedGoalInvolvements float64
	ExpectedGoalsConceded    float64

	DefensiveContribution int64
	Tackles               int64
	Recoveries            int64
	CBI                   int64

	Form               float64
	ValueForm          float64
	ValueSeason        float64
	ExpectedPointsNext float64
}

// Validate checks the fields the writer requires before a row may be appended.
func (s PlayerSnapshot) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("snapshot player id is required")
	}
	if s.SnapshotTime.IsZero() {
		return fmt.Errorf("snapshot time is required")
	}

	return nil
}

// PlayerView is the current-state row handed to consumers: the newest
// snapshot of a player plus rate-normalized metrics. Derived on read,
// never stored.
type PlayerView struct {
	PlayerSnapshot
	Metrics Metrics
}

// PriceChange is the cost delta between a player's two most recent
// snapshots. Players with fewer than two snapshots produce no record.
type PriceChange struct {
	PlayerID          int64
	WebName           string
	TeamName          string
	Position          Position
	Cost              float64
	Delta             float64
	SelectedByPercent float64
}
