package logic

import (
	"context"
	"net/url"

	"robin/internal/domain"
)

// Remote is the statistics service as seen by the application
type Remote interface {
	Repositories(ctx context.Context, cursor string) (domain.Page[*domain.Repository], error)
	Teams(ctx context.Context, cursor string) (domain.Page[*domain.Team], error)
	PendingPatches(ctx context.Context, cursor string, params url.Values) (domain.Page[*domain.PendingPatch], error)
	ClosedPatchStats(ctx context.Context, in domain.QueryInput) (*domain.QueryResult, error)
}
