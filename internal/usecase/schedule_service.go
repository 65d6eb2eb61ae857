package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fplmetric/fplmetric/internal/domain/schedule"
	"github.com/fplmetric/fplmetric/internal/platform/logging"
)

const tickerFetchWorkers = 4

// ScheduleService serves gameweek metadata and fixture views from the
// upstream scheduling endpoints.
type ScheduleService struct {
	source   BootstrapFetcher
	fixtures FixtureFetcher
	logger   *logging.Logger
}

func NewScheduleService(source BootstrapFetcher, fixtures FixtureFetcher, logger *logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScheduleService{
		source:   source,
		fixtures: fixtures,
		logger:   logger,
	}
}

// NextGameweek resolves the upcoming gameweek and its fixtures.
func (s *ScheduleService) NextGameweek(ctx context.Context) (schedule.Gameweek, []schedule.FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.NextGameweek")
	defer span.End()

	bootstrap, err := s.source.FetchBootstrap(ctx)
	if err != nil {
		return schedule.Gameweek{}, nil, fmt.Errorf("%w: fetch bootstrap: %v", ErrSourceUnavailable, err)
	}

	var next *SourceEvent
	for idx := range bootstrap.Events {
		if bootstrap.Events[idx].IsNext {
			next = &bootstrap.Events[idx]
			break
		}
	}
	if next == nil {
		return schedule.Gameweek{}, nil, fmt.Errorf("%w: no upcoming gameweek", ErrNotFound)
	}

	gameweek := schedule.Gameweek{
		ID:         next.ID,
		Name:       next.Name,
		DeadlineAt: next.DeadlineAt,
		IsNext:     true,
	}

	teamsByID := teamIndex(bootstrap.Teams)
	fixtures, err := s.fixtures.FetchFixturesByEvent(ctx, next.ID)
	if err != nil {
		return schedule.Gameweek{}, nil, fmt.Errorf("%w: fetch fixtures event=%d: %v", ErrSourceUnavailable, next.ID, err)
	}

	views := make([]schedule.FixtureView, 0, len(fixtures))
	for _, item := range fixtures {
		home, homeOK := teamsByID[item.HomeTeamID]
		away, awayOK := teamsByID[item.AwayTeamID]
		if !homeOK || !awayOK {
			continue
		}
		views = append(views, schedule.FixtureView{
			HomeName:  home.ShortName,
			HomeCode:  home.Code,
			AwayName:  away.ShortName,
			AwayCode:  away.Code,
			KickoffAt: item.KickoffAt,
		})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].KickoffAt.Before(views[j].KickoffAt) })

	return gameweek, views, nil
}

// FixtureTicker builds the per-team difficulty ticker over a gameweek range.
// Per-event fixture fetches have no ordering dependency between gameweeks, so
// they run on a small worker pool.
func (s *ScheduleService) FixtureTicker(ctx context.Context, fromEvent, toEvent int64) ([]schedule.TickerRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.FixtureTicker")
	defer span.End()

	if fromEvent <= 0 || toEvent < fromEvent {
		return nil, fmt.Errorf("%w: gameweek range %d..%d is invalid", ErrInvalidInput, fromEvent, toEvent)
	}

	bootstrap, err := s.source.FetchBootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch bootstrap: %v", ErrSourceUnavailable, err)
	}

	workers, err := ants.NewPool(tickerFetchWorkers)
	if err != nil {
		return nil, fmt.Errorf("create ticker worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		fetchErr error
		fixtures []SourceFixture
	)
	for event := fromEvent; event <= toEvent; event++ {
		event := event
		wg.Add(1)
		if submitErr := workers.Submit(func() {
			defer wg.Done()
			items, err := s.fixtures.FetchFixturesByEvent(ctx, event)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fetchErr == nil {
					fetchErr = fmt.Errorf("fetch fixtures event=%d: %w", event, err)
				}
				return
			}
			fixtures = append(fixtures, items...)
		}); submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit ticker fetch: %w", submitErr)
		}
	}
	wg.Wait()
	if fetchErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, fetchErr)
	}

	teamsByID := teamIndex(bootstrap.Teams)
	rows := make([]schedule.TickerRow, 0, len(teamsByID))
	for teamID, team := range teamsByID {
		row := schedule.TickerRow{
			TeamName: team.Name,
			TeamCode: team.Code,
		}
		for _, item := range fixtures {
			if item.HomeTeamID != teamID && item.AwayTeamID != teamID {
				continue
			}

			home := item.HomeTeamID == teamID
			opponentID := item.AwayTeamID
			difficulty := item.HomeDifficulty
			if !home {
				opponentID = item.HomeTeamID
				difficulty = item.AwayDifficulty
			}
			opponent, ok := teamsByID[opponentID]
			if !ok {
				continue
			}

			// Opposition strength away from home when we host, and vice
			// versa; a weak opposing defence inflates our attack outlook.
			oppDef := opponent.StrengthDefenceAway
			oppAtt := opponent.StrengthAttackAway
			if !home {
				oppDef = opponent.StrengthDefenceHome
				oppAtt = opponent.StrengthAttackHome
			}

			row.Entries = append(row.Entries, schedule.TickerEntry{
				Event:      item.Event,
				Opponent:   opponent.ShortName,
				Home:       home,
				Difficulty: difficulty,
			})
			row.DiffOverall += difficulty
			row.DiffAttack += oppDef
			row.DiffDefence += oppAtt
		}

		sort.Slice(row.Entries, func(i, j int) bool { return row.Entries[i].Event < row.Entries[j].Event })
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].TeamName < rows[j].TeamName })

	return rows, nil
}

// UpcomingFixtures lists every team's remaining scheduled fixtures, from the
// next kickoff to the end of the season. Matches without a confirmed gameweek
// never reach this layer; the source skips them.
func (s *ScheduleService) UpcomingFixtures(ctx context.Context) ([]schedule.TeamUpcoming, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.UpcomingFixtures")
	defer span.End()

	bootstrap, err := s.source.FetchBootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch bootstrap: %v", ErrSourceUnavailable, err)
	}

	fixtures, err := s.fixtures.FetchUpcomingFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch upcoming fixtures: %v", ErrSourceUnavailable, err)
	}

	teamsByID := teamIndex(bootstrap.Teams)
	rows := make([]schedule.TeamUpcoming, 0, len(teamsByID))
	for teamID, team := range teamsByID {
		row := schedule.TeamUpcoming{
			TeamName: team.Name,
			TeamCode: team.Code,
		}
		for _, item := range fixtures {
			if item.HomeTeamID != teamID && item.AwayTeamID != teamID {
				continue
			}

			home := item.HomeTeamID == teamID
			opponentID := item.AwayTeamID
			difficulty := item.HomeDifficulty
			if !home {
				opponentID = item.HomeTeamID
				difficulty = item.AwayDifficulty
			}
			opponent, ok := teamsByID[opponentID]
			if !ok {
				continue
			}

			row.Fixtures = append(row.Fixtures, schedule.UpcomingFixture{
				Event:      item.Event,
				Opponent:   opponent.ShortName,
				Home:       home,
				Difficulty: difficulty,
				KickoffAt:  item.KickoffAt,
			})
		}

		sort.Slice(row.Fixtures, func(i, j int) bool {
			return row.Fixtures[i].KickoffAt.Before(row.Fixtures[j].KickoffAt)
		})
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].TeamName < rows[j].TeamName })

	return rows, nil
}

func teamIndex(teams []SourceTeam) map[int64]schedule.Team {
	out := make(map[int64]schedule.Team, len(teams))
	for _, team := range teams {
		out[team.ID] = schedule.Team{
			ID:                  team.ID,
			Code:                team.Code,
			Name:                team.Name,
			ShortName:           team.ShortName,
			StrengthAttackHome:  team.StrengthAttackHome,
			StrengthAttackAway:  team.StrengthAttackAway,
			StrengthDefenceHome: team.StrengthDefenceHome,
			StrengthDefenceAway: team.StrengthDefenceAway,
		}
	}
	return out
}
