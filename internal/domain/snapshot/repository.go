package snapshot

import "context"

// RankedSnapshot is a snapshot row annotated with its recency rank for one
// player (1 = newest). Produced by the last-N window query.
type RankedSnapshot struct {
	PlayerSnapshot
	Rank int
}

// Repository describes what the reconstruction pipeline needs from the
// append-only historical store.
type Repository interface {
	// AppendBatch appends all rows in a single transaction. Either every row
	// lands or none do. Existing rows are never touched.
	AppendBatch(ctx context.Context, rows []PlayerSnapshot) error

	// LatestPerPlayer returns exactly one row per distinct player id: the row
	// with the maximum snapshot time, ties broken by insertion order. An
	// empty store yields an empty slice, not an error.
	LatestPerPlayer(ctx context.Context) ([]PlayerSnapshot, error)

	// LastNPerPlayer returns up to n newest rows per player, ranked 1..n by
	// snapshot time descending.
	LastNPerPlayer(ctx context.Context, n int) ([]RankedSnapshot, error)
}
