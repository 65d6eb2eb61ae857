package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fplmetric/fplmetric/internal/domain/schedule"
	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
)

func snap(playerID int64, at time.Time, cost float64) snapshot.PlayerSnapshot {
	return snapshot.PlayerSnapshot{
		PlayerID:     playerID,
		SnapshotTime: at,
		Cost:         cost,
		WebName:      "p",
		TeamName:     "t",
		Position:     snapshot.PositionMidfielder,
	}
}

func TestStatsServiceCurrentState(t *testing.T) {
	now := time.Date(2026, time.August, 29, 9, 0, 0, 0, time.UTC)
	repo := &fakeSnapshotRepo{latest: []snapshot.PlayerSnapshot{
		{PlayerID: 1, SnapshotTime: now, Minutes: 90, GoalsScored: 1},
		{PlayerID: 2, SnapshotTime: now, Minutes: 0},
	}}

	views, err := NewStatsService(repo).CurrentState(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, 1.0, views[0].Metrics.GoalsPer90)
	require.Equal(t, 0.0, views[1].Metrics.GoalsPer90)
}

func TestStatsServiceCurrentState_EmptyHistory(t *testing.T) {
	views, err := NewStatsService(&fakeSnapshotRepo{}).CurrentState(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestStatsServiceCurrentState_QueryFailureIsExplicit(t *testing.T) {
	repo := &fakeSnapshotRepo{queryErr: errors.New("store unreachable")}

	views, err := NewStatsService(repo).CurrentState(context.Background())
	require.Error(t, err, "a failed query must never look like an empty result")
	require.Nil(t, views)
}

func TestStatsServicePriceChanges(t *testing.T) {
	t1 := time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	repo := &fakeSnapshotRepo{ranked: []snapshot.RankedSnapshot{
		{PlayerSnapshot: snap(7, t2, 5.5), Rank: 1},
		{PlayerSnapshot: snap(7, t1, 5.0), Rank: 2},
		{PlayerSnapshot: snap(8, t2, 4.5), Rank: 1},
		{PlayerSnapshot: snap(8, t1, 4.5), Rank: 2},
		// player 9 has a single snapshot: change is undefined, not zero.
		{PlayerSnapshot: snap(9, t2, 6.0), Rank: 1},
	}}

	changes, err := NewStatsService(repo).PriceChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, changes, 2)

	require.Equal(t, int64(7), changes[0].PlayerID)
	require.InDelta(t, 0.5, changes[0].Delta, 1e-9)
	require.InDelta(t, 5.5, changes[0].Cost, 1e-9)

	// Zero deltas are reported; dropping them is the consumer's call.
	require.Equal(t, int64(8), changes[1].PlayerID)
	require.Zero(t, changes[1].Delta)
}

func TestStatsServicePriceChanges_QueryFailure(t *testing.T) {
	repo := &fakeSnapshotRepo{queryErr: errors.New("store unreachable")}

	_, err := NewStatsService(repo).PriceChanges(context.Background())
	require.Error(t, err)
}

type fakeGameweekProvider struct {
	gw  schedule.Gameweek
	fx  []schedule.FixtureView
	err error
}

func (f *fakeGameweekProvider) NextGameweek(context.Context) (schedule.Gameweek, []schedule.FixtureView, error) {
	return f.gw, f.fx, f.err
}

func TestDashboardServiceGet(t *testing.T) {
	t1 := time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	repo := &fakeSnapshotRepo{
		latest: []snapshot.PlayerSnapshot{snap(7, t2, 5.5)},
		ranked: []snapshot.RankedSnapshot{
			{PlayerSnapshot: snap(7, t2, 5.5), Rank: 1},
			{PlayerSnapshot: snap(7, t1, 5.0), Rank: 2},
			{PlayerSnapshot: snap(8, t2, 4.5), Rank: 1},
			{PlayerSnapshot: snap(8, t1, 4.5), Rank: 2},
		},
	}
	gwProvider := &fakeGameweekProvider{gw: schedule.Gameweek{ID: 3, Name: "Gameweek 3"}}

	dashboard, err := NewDashboardService(NewStatsService(repo), gwProvider).Get(context.Background())
	require.NoError(t, err)
	require.Len(t, dashboard.Players, 1)
	require.Len(t, dashboard.Movers, 1, "zero deltas are filtered at the dashboard")
	require.Equal(t, int64(7), dashboard.Movers[0].PlayerID)
	require.NotNil(t, dashboard.NextGameweek)
	require.Equal(t, int64(3), dashboard.NextGameweek.ID)
}

func TestDashboardServiceGet_ToleratesScheduleFailure(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	gwProvider := &fakeGameweekProvider{err: errors.New("upstream down")}

	dashboard, err := NewDashboardService(NewStatsService(repo), gwProvider).Get(context.Background())
	require.NoError(t, err)
	require.Nil(t, dashboard.NextGameweek)
}

func TestDashboardServiceGet_StoreFailureIsFatal(t *testing.T) {
	repo := &fakeSnapshotRepo{queryErr: errors.New("store unreachable")}
	gwProvider := &fakeGameweekProvider{}

	_, err := NewDashboardService(NewStatsService(repo), gwProvider).Get(context.Background())
	require.Error(t, err)
}
