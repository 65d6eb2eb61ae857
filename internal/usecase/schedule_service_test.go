package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fplmetric/fplmetric/internal/platform/logging"
)

type fakeFixtureFetcher struct {
	mu       sync.Mutex
	byEvent  map[int64][]SourceFixture
	upcoming []SourceFixture
	calls    []int64
	err      error
}

func (f *fakeFixtureFetcher) FetchFixturesByEvent(_ context.Context, event int64) ([]SourceFixture, error) {
	f.mu.Lock()
	f.calls = append(f.calls, event)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byEvent[event], nil
}

func (f *fakeFixtureFetcher) FetchUpcomingFixtures(context.Context) ([]SourceFixture, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.upcoming, nil
}

func scheduleBootstrap() SourceBootstrap {
	return SourceBootstrap{
		Teams: []SourceTeam{
			{ID: 1, Code: 10, Name: "Arsenal", ShortName: "ARS", StrengthAttackHome: 1350, StrengthAttackAway: 1300, StrengthDefenceHome: 1320, StrengthDefenceAway: 1280},
			{ID: 2, Code: 20, Name: "Chelsea", ShortName: "CHE", StrengthAttackHome: 1250, StrengthAttackAway: 1200, StrengthDefenceHome: 1220, StrengthDefenceAway: 1180},
		},
		Events: []SourceEvent{
			{ID: 2, Name: "Gameweek 2", Finished: true},
			{ID: 3, Name: "Gameweek 3", IsNext: true, DeadlineAt: time.Date(2026, time.September, 5, 10, 30, 0, 0, time.UTC)},
		},
	}
}

func TestScheduleServiceNextGameweek(t *testing.T) {
	kickoff := time.Date(2026, time.September, 5, 14, 0, 0, 0, time.UTC)
	fixtures := &fakeFixtureFetcher{byEvent: map[int64][]SourceFixture{
		3: {{Event: 3, HomeTeamID: 1, AwayTeamID: 2, KickoffAt: kickoff, HomeDifficulty: 3, AwayDifficulty: 4}},
	}}
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: scheduleBootstrap()}, fixtures, logging.NewNop())

	gameweek, views, err := svc.NextGameweek(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), gameweek.ID)
	require.Equal(t, "Gameweek 3", gameweek.Name)
	require.Len(t, views, 1)
	require.Equal(t, "ARS", views[0].HomeName)
	require.Equal(t, "CHE", views[0].AwayName)
	require.Equal(t, kickoff, views[0].KickoffAt)
}

func TestScheduleServiceNextGameweek_NoUpcoming(t *testing.T) {
	bootstrap := scheduleBootstrap()
	bootstrap.Events[1].IsNext = false
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: bootstrap}, &fakeFixtureFetcher{}, logging.NewNop())

	_, _, err := svc.NextGameweek(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleServiceFixtureTicker(t *testing.T) {
	fixtures := &fakeFixtureFetcher{byEvent: map[int64][]SourceFixture{
		3: {{Event: 3, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 4}},
		4: {{Event: 4, HomeTeamID: 2, AwayTeamID: 1, HomeDifficulty: 3, AwayDifficulty: 3}},
	}}
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: scheduleBootstrap()}, fixtures, logging.NewNop())

	rows, err := svc.FixtureTicker(context.Background(), 3, 4)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, fixtures.calls, 2, "one fetch per gameweek in range")

	arsenal := -1
	for idx := range rows {
		if rows[idx].TeamName == "Arsenal" {
			arsenal = idx
			break
		}
	}
	require.NotEqual(t, -1, arsenal)
	row := rows[arsenal]
	require.Len(t, row.Entries, 2)
	require.Equal(t, int64(3), row.Entries[0].Event)
	require.True(t, row.Entries[0].Home)
	require.Equal(t, "CHE", row.Entries[0].Opponent)
	require.Equal(t, 2+3, row.DiffOverall)
}

func TestScheduleServiceUpcomingFixtures(t *testing.T) {
	early := time.Date(2026, time.September, 5, 14, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.September, 12, 16, 30, 0, 0, time.UTC)
	fixtures := &fakeFixtureFetcher{upcoming: []SourceFixture{
		{Event: 4, HomeTeamID: 2, AwayTeamID: 1, KickoffAt: late, HomeDifficulty: 3, AwayDifficulty: 3},
		{Event: 3, HomeTeamID: 1, AwayTeamID: 2, KickoffAt: early, HomeDifficulty: 2, AwayDifficulty: 4},
	}}
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: scheduleBootstrap()}, fixtures, logging.NewNop())

	rows, err := svc.UpcomingFixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Arsenal", rows[0].TeamName)
	require.Equal(t, "Chelsea", rows[1].TeamName)

	arsenal := rows[0]
	require.Len(t, arsenal.Fixtures, 2)
	require.Equal(t, int64(3), arsenal.Fixtures[0].Event, "earliest kickoff first")
	require.True(t, arsenal.Fixtures[0].Home)
	require.Equal(t, "CHE", arsenal.Fixtures[0].Opponent)
	require.Equal(t, 2, arsenal.Fixtures[0].Difficulty)
	require.Equal(t, early, arsenal.Fixtures[0].KickoffAt)
	require.False(t, arsenal.Fixtures[1].Home)
	require.Equal(t, 3, arsenal.Fixtures[1].Difficulty)
}

func TestScheduleServiceUpcomingFixtures_FetchFailure(t *testing.T) {
	fixtures := &fakeFixtureFetcher{err: errors.New("timeout")}
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: scheduleBootstrap()}, fixtures, logging.NewNop())

	_, err := svc.UpcomingFixtures(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestScheduleServiceFixtureTicker_InvalidRange(t *testing.T) {
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: scheduleBootstrap()}, &fakeFixtureFetcher{}, logging.NewNop())

	_, err := svc.FixtureTicker(context.Background(), 5, 3)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestScheduleServiceFixtureTicker_FetchFailure(t *testing.T) {
	fixtures := &fakeFixtureFetcher{err: errors.New("timeout")}
	svc := NewScheduleService(&fakeBootstrapFetcher{bootstrap: scheduleBootstrap()}, fixtures, logging.NewNop())

	_, err := svc.FixtureTicker(context.Background(), 3, 4)
	require.ErrorIs(t, err, ErrSourceUnavailable)
}
