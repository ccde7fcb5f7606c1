package attrs

import (
	"context"
	"time"
)

// PlayerRepository serves dated player attribute histories. Implementations
// may pre-filter on the cutoff; AsOf enforces the strict bound regardless.
type PlayerRepository interface {
	PlayerHistories(ctx context.Context, playerIDs []int64, cutoff time.Time) (map[int64]History, error)
}

// TeamRepository serves dated team attribute histories.
type TeamRepository interface {
	TeamHistories(ctx context.Context, teamIDs []int64, cutoff time.Time) (map[int64]History, error)
}
