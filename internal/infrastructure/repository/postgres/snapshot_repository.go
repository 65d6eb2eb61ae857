package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
	qb "github.com/fplmetric/fplmetric/internal/platform/querybuilder"
)

// SnapshotRepository persists the append-only snapshot history. Rows are
// inserted once and never updated or deleted.
type SnapshotRepository struct {
	db *sqlx.DB
}

var snapshotSelectColumns = []string{
	"id",
	"snapshot_time",
	"player_id",
	"web_name",
	"first_name",
	"second_name",
	"team_code",
	"team_name",
	"position_id",
	"position",
	"status",
	"news",
	"chance_of_playing",
	"now_cost",
	"selected_by_percent",
	"transfers_in_event",
	"transfers_out_event",
	"cost_change_event",
	"total_points",
	"points_per_game",
	"minutes",
	"starts",
	"matches_played",
	"goals_scored",
	"assists",
	"clean_sheets",
	"goals_conceded",
	"own_goals",
	"penalties_saved",
	"penalties_missed",
	"yellow_cards",
	"red_cards",
	"saves",
	"bonus",
	"bps",
	"influence",
	"creativity",
	"threat",
	"ict_index",
	"expected_goals",
	"expected_assists",
	"expected_goal_involvements",
	"expected_goals_conceded",
	"defensive_contribution",
	"tackles",
	"recoveries",
	"cbi",
	"form",
	"value_form",
	"value_season",
	"ep_next",
}

// insertChunkSize bounds the placeholder count of one multi-row insert well
// under the postgres protocol limit of 65535 bind parameters.
const insertChunkSize = 200

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) AppendBatch(ctx context.Context, rows []snapshot.PlayerSnapshot) error {
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("validate snapshot player=%d: %w", row.PlayerID, err)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx append snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(rows); start += insertChunkSize {
		end := min(start+insertChunkSize, len(rows))
		chunk := rows[start:end]

		models := make([]any, 0, len(chunk))
		for _, row := range chunk {
			models = append(models, rowModelFromSnapshot(row))
		}
		query, args, err := qb.InsertModels("player_snapshots", models, "")
		if err != nil {
			return fmt.Errorf("build insert snapshot batch query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert snapshot batch rows=%d..%d: %w", start, end-1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append snapshots tx: %w", err)
	}

	return nil
}

// latestPerPlayerQuery builds the reconstruction query. DISTINCT ON keeps
// the first row per player under the given order, so the newest snapshot
// wins and id breaks same-timestamp ties.
func latestPerPlayerQuery() (string, []any, error) {
	columns := append([]string{"DISTINCT ON (player_id) id"}, snapshotSelectColumns[1:]...)
	return qb.Select(columns...).From("player_snapshots").
		OrderBy("player_id", "snapshot_time DESC", "id DESC").
		ToSQL()
}

func lastNPerPlayerQuery() string {
	columnList := strings.Join(snapshotSelectColumns, ", ")
	return fmt.Sprintf(`SELECT %s, rn FROM (
    SELECT %s, ROW_NUMBER() OVER (PARTITION BY player_id ORDER BY snapshot_time DESC, id DESC) AS rn
    FROM player_snapshots
) ranked WHERE rn <= $1 ORDER BY player_id, rn`, columnList, columnList)
}

func (r *SnapshotRepository) LatestPerPlayer(ctx context.Context) ([]snapshot.PlayerSnapshot, error) {
	query, args, err := latestPerPlayerQuery()
	if err != nil {
		return nil, fmt.Errorf("build select latest snapshots query: %w", err)
	}

	var models []playerSnapshotTableModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select latest snapshots: %w", err)
	}

	out := make([]snapshot.PlayerSnapshot, 0, len(models))
	for _, m := range models {
		out = append(out, m.toSnapshot())
	}

	return out, nil
}

func (r *SnapshotRepository) LastNPerPlayer(ctx context.Context, n int) ([]snapshot.RankedSnapshot, error) {
	if n < 1 {
		return nil, fmt.Errorf("rank window must be at least 1, got %d", n)
	}

	var models []rankedSnapshotTableModel
	if err := r.db.SelectContext(ctx, &models, lastNPerPlayerQuery(), n); err != nil {
		return nil, fmt.Errorf("select last %d snapshots per player: %w", n, err)
	}

	out := make([]snapshot.RankedSnapshot, 0, len(models))
	for _, m := range models {
		out = append(out, snapshot.RankedSnapshot{
			PlayerSnapshot: m.toSnapshot(),
			Rank:           m.Rank,
		})
	}

	return out, nil
}
