package match

import "context"

// Filter narrows which match rows a listing returns.
type Filter struct {
	Seasons     []string
	MatchAPIIDs []int64
	Limit       int
}

// Repository describes match persistence needs from use cases. Rows stay raw
// so ingestion can report schema problems record by record.
type Repository interface {
	ListRows(ctx context.Context, filter Filter) ([]Row, error)
}
