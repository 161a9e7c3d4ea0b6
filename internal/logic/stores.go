package logic

import (
	"context"
	"net/url"

	"robin/internal/domain"
	"robin/internal/pagination"
)

// NewRepositoryStore creates a page store backed by remote's repository listing
func NewRepositoryStore(remote Remote) *pagination.Store[*domain.Repository] {
	return pagination.New[*domain.Repository](func(ctx context.Context, cursor string, _ url.Values) (domain.Page[*domain.Repository], error) {
		return remote.Repositories(ctx, cursor)
	})
}

// NewTeamStore creates a page store backed by remote's team listing
func NewTeamStore(remote Remote) *pagination.Store[*domain.Team] {
	return pagination.New[*domain.Team](func(ctx context.Context, cursor string, _ url.Values) (domain.Page[*domain.Team], error) {
		return remote.Teams(ctx, cursor)
	})
}

// NewPendingStore creates a page store backed by remote's pending patches
func NewPendingStore(remote Remote) *pagination.Store[*domain.PendingPatch] {
	return pagination.New[*domain.PendingPatch](remote.PendingPatches)
}
