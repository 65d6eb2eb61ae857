package schedule

import "time"

// Gameweek is one upstream scoring period with its transfer deadline.
type Gameweek struct {
	ID         int64
	Name       string
	DeadlineAt time.Time
	IsNext     bool
}

// Team carries the quasi-static team attributes needed for fixture views.
type Team struct {
	ID                  int64
	Code                int64
	Name                string
	ShortName           string
	StrengthAttackHome  int
	StrengthAttackAway  int
	StrengthDefenceHome int
	StrengthDefenceAway int
}

// FixtureView is a fixture resolved against team metadata, ready for display.
type FixtureView struct {
	HomeName  string
	HomeCode  int64
	AwayName  string
	AwayCode  int64
	KickoffAt time.Time
}

// TickerEntry is one upcoming opponent cell in a team's fixture ticker.
type TickerEntry struct {
	Event      int64
	Opponent   string
	Home       bool
	Difficulty int
}

// TickerRow aggregates a team's upcoming fixtures over a gameweek range with
// summed difficulty scores for sorting.
type TickerRow struct {
	TeamName    string
	TeamCode    int64
	Entries     []TickerEntry
	DiffOverall int
	DiffAttack  int
	DiffDefence int
}

// UpcomingFixture is one scheduled match in a team's remaining calendar.
type UpcomingFixture struct {
	Event      int64
	Opponent   string
	Home       bool
	Difficulty int
	KickoffAt  time.Time
}

// TeamUpcoming groups the remaining scheduled fixtures of one team.
type TeamUpcoming struct {
	TeamName string
	TeamCode int64
	Fixtures []UpcomingFixture
}
