package usecase

import (
	"context"
	"time"
)

// SourceTeam is the upstream team metadata needed to resolve snapshot rows
// and fixture views.
type SourceTeam struct {
	ID                  int64
	Code                int64
	Name                string
	ShortName           string
	StrengthAttackHome  int
	StrengthAttackAway  int
	StrengthDefenceHome int
	StrengthDefenceAway int
}

// SourceEvent is one upstream gameweek descriptor.
type SourceEvent struct {
	ID         int64
	Name       string
	DeadlineAt time.Time
	IsNext     bool
	Finished   bool
}

// SourceFixture is one upstream scheduled match.
type SourceFixture struct {
	Event          int64
	HomeTeamID     int64
	AwayTeamID     int64
	KickoffAt      time.Time
	HomeDifficulty int
	AwayDifficulty int
}

// SourceBootstrap is the full upstream entity dump fetched in one call.
// Player records stay loosely typed; their schema is unversioned and the
// adapter owns field resolution.
type SourceBootstrap struct {
	Players []RawRecord
	Teams   []SourceTeam
	Events  []SourceEvent
}

// BootstrapFetcher fetches the full upstream entity list.
type BootstrapFetcher interface {
	FetchBootstrap(ctx context.Context) (SourceBootstrap, error)
}

// FixtureFetcher fetches scheduled matches, either for one gameweek or all
// remaining ones.
type FixtureFetcher interface {
	FetchFixturesByEvent(ctx context.Context, event int64) ([]SourceFixture, error)
	FetchUpcomingFixtures(ctx context.Context) ([]SourceFixture, error)
}
