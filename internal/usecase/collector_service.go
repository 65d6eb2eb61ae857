package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
	"github.com/fplmetric/fplmetric/internal/platform/logging"
)

// CollectorService executes one full collection cycle: fetch the entire
// upstream player list in one call, adapt every record, stamp the batch with
// a single shared collection timestamp and append it to the historical store.
//
// A failed run never leaves partial state: fetch failures abort before any
// write, and the writer appends the whole batch in one transaction. That
// makes re-invoking a run after any failure safe; it simply appends another
// snapshot layer.
type CollectorService struct {
	source BootstrapFetcher
	repo   snapshot.Repository
	logger *logging.Logger
	now    func() time.Time
}

// RunOptions tunes one collection run.
type RunOptions struct {
	// DryRun fetches and adapts without writing, for validating the upstream
	// schema against the adapter.
	DryRun bool
}

// RunSummary reports what one collection run did.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	SnapshotTime time.Time `json:"snapshot_time"`
	Appended     int       `json:"appended"`
	Dropped      int       `json:"dropped"`
	DryRun       bool      `json:"dry_run"`
}

func NewCollectorService(source BootstrapFetcher, repo snapshot.Repository, logger *logging.Logger) *CollectorService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CollectorService{
		source: source,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Run performs one collection cycle.
func (s *CollectorService) Run(ctx context.Context, opts RunOptions) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectorService.Run")
	defer span.End()

	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	bootstrap, err := s.source.FetchBootstrap(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: fetch bootstrap: %v", ErrSourceUnavailable, err)
	}

	// One timestamp for the whole run so the snapshot is a consistent
	// cross-player cut.
	snapshotTime := s.now().UTC().Truncate(time.Second)

	teamNameByCode := make(map[int64]string, len(bootstrap.Teams))
	for _, team := range bootstrap.Teams {
		teamNameByCode[team.ID] = team.Name
	}

	rows := make([]snapshot.PlayerSnapshot, 0, len(bootstrap.Players))
	dropped := 0
	for _, rec := range bootstrap.Players {
		row, err := AdaptPlayerRecord(rec)
		if err != nil {
			dropped++
			logger.WarnContext(ctx, "dropping unadaptable player record",
				"web_name", rec.GetString("web_name"),
				"error", err,
			)
			continue
		}
		row.SnapshotTime = snapshotTime
		row.TeamName = teamNameByCode[row.TeamCode]
		rows = append(rows, row)
	}

	summary := RunSummary{
		RunID:        runID,
		SnapshotTime: snapshotTime,
		Appended:     len(rows),
		Dropped:      dropped,
		DryRun:       opts.DryRun,
	}

	if opts.DryRun {
		logger.InfoContext(ctx, "dry run complete, nothing written",
			"adapted", len(rows),
			"dropped", dropped,
		)
		return summary, nil
	}

	if len(rows) == 0 {
		return RunSummary{}, fmt.Errorf("%w: bootstrap returned no adaptable player records", ErrSourceUnavailable)
	}

	if err := s.repo.AppendBatch(ctx, rows); err != nil {
		return RunSummary{}, fmt.Errorf("append snapshot batch: %w", err)
	}

	logger.InfoContext(ctx, "collection run complete",
		"snapshot_time", snapshotTime,
		"appended", len(rows),
		"dropped", dropped,
	)

	return summary, nil
}
