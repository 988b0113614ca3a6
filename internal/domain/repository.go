package domain

import "context"

// TrackRepository defines persistence for track metadata records. All
// lookups and mutations are scoped to the owning user.
type TrackRepository interface {
	Insert(ctx context.Context, track *Track) error
	ListByOwner(ctx context.Context, ownerID string) ([]Track, error)
	GetByID(ctx context.Context, id, ownerID string) (*Track, error)
	Delete(ctx context.Context, id, ownerID string) error
}
