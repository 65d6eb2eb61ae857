package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fplmetric/fplmetric/internal/domain/schedule"
	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
)

// StatsService reconstructs consumer-facing views from the append-only
// snapshot history. All reads are stateless; a newer snapshot layer may be
// appended at any time, so results are recomputed on every call (the cache
// decorator in front of the repository bounds that with a short TTL).
type StatsService struct {
	repo snapshot.Repository
}

func NewStatsService(repo snapshot.Repository) *StatsService {
	return &StatsService{repo: repo}
}

// CurrentState returns one row per distinct player: the newest snapshot plus
// derived rate metrics. An empty history is an empty slice; a store failure
// is an explicit error, never conflated with "no data".
func (s *StatsService) CurrentState(ctx context.Context) ([]snapshot.PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.CurrentState")
	defer span.End()

	rows, err := s.repo.LatestPerPlayer(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current state: %w", err)
	}

	out := make([]snapshot.PlayerView, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshot.PlayerView{
			PlayerSnapshot: row,
			Metrics:        snapshot.DeriveMetrics(row),
		})
	}

	return out, nil
}

// PriceChanges computes the cost delta between each player's two most recent
// snapshots (newest minus previous). Players with fewer than two snapshots
// are excluded entirely: change is undefined for them, not zero. Zero deltas
// are reported; filtering them out is the caller's policy.
func (s *StatsService) PriceChanges(ctx context.Context) ([]snapshot.PriceChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PriceChanges")
	defer span.End()

	ranked, err := s.repo.LastNPerPlayer(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("load snapshot pairs: %w", err)
	}

	latest := make(map[int64]snapshot.PlayerSnapshot, len(ranked)/2)
	previous := make(map[int64]snapshot.PlayerSnapshot, len(ranked)/2)
	for _, row := range ranked {
		switch row.Rank {
		case 1:
			latest[row.PlayerID] = row.PlayerSnapshot
		case 2:
			previous[row.PlayerID] = row.PlayerSnapshot
		}
	}

	out := make([]snapshot.PriceChange, 0, len(previous))
	for playerID, now := range latest {
		old, ok := previous[playerID]
		if !ok {
			continue
		}
		out = append(out, snapshot.PriceChange{
			PlayerID:          playerID,
			WebName:           now.WebName,
			TeamName:          now.TeamName,
			Position:          now.Position,
			Cost:              now.Cost,
			Delta:             now.Cost - old.Cost,
			SelectedByPercent: now.SelectedByPercent,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

// Dashboard is the aggregate payload for one dashboard page load.
type Dashboard struct {
	Players      []snapshot.PlayerView
	Movers       []snapshot.PriceChange
	NextGameweek *schedule.Gameweek
	Fixtures     []schedule.FixtureView
	GeneratedAt  time.Time
}

type gameweekProvider interface {
	NextGameweek(ctx context.Context) (schedule.Gameweek, []schedule.FixtureView, error)
}

// DashboardService assembles the combined dashboard payload, fetching its
// independent parts concurrently.
type DashboardService struct {
	stats    *StatsService
	schedule gameweekProvider
	now      func() time.Time
}

func NewDashboardService(stats *StatsService, scheduleSvc gameweekProvider) *DashboardService {
	return &DashboardService{
		stats:    stats,
		schedule: scheduleSvc,
		now:      time.Now,
	}
}

// Get loads players, price movers and the upcoming gameweek in parallel.
// Movers exclude zero deltas: "no change" is dashboard policy, applied here
// at the consumer, not inside the change detector.
func (s *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	var (
		players  []snapshot.PlayerView
		changes  []snapshot.PriceChange
		gameweek schedule.Gameweek
		fixtures []schedule.FixtureView
		haveGW   bool
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		players, err = s.stats.CurrentState(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		changes, err = s.stats.PriceChanges(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		gw, fx, err := s.schedule.NextGameweek(ctx)
		if err != nil {
			// The schedule feed is decorative here; the dashboard still
			// renders without it.
			return nil
		}
		gameweek = gw
		fixtures = fx
		haveGW = true
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	movers := make([]snapshot.PriceChange, 0, len(changes))
	for _, change := range changes {
		if change.Delta == 0 {
			continue
		}
		movers = append(movers, change)
	}

	dashboard := Dashboard{
		Players:     players,
		Movers:      movers,
		Fixtures:    fixtures,
		GeneratedAt: s.now().UTC(),
	}
	if haveGW {
		gw := gameweek
		dashboard.NextGameweek = &gw
	}

	return dashboard, nil
}
