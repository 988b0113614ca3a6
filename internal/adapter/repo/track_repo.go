package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/sqlinline"
)

// TrackRepositoryPG implements domain.TrackRepository using PostgreSQL.
type TrackRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTrackRepository constructs a new track repository instance.
func NewTrackRepository(pool *pgxpool.Pool) *TrackRepositoryPG {
	return &TrackRepositoryPG{pool: pool}
}

// Insert persists a new track record.
func (r *TrackRepositoryPG) Insert(ctx context.Context, track *domain.Track) error {
	row := r.pool.QueryRow(ctx, sqlinline.QInsertTrack,
		track.ID, track.OwnerID, track.Title, track.VideoID, track.SourceURL, track.StorageKey, track.FileURL)
	if err := row.Scan(&track.CreatedAt); err != nil {
		return fmt.Errorf("insert track: %w", err)
	}
	return nil
}

// ListByOwner returns all tracks belonging to the user, newest first.
func (r *TrackRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Track, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QListTracksByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var track domain.Track
		if err := rows.Scan(&track.ID, &track.OwnerID, &track.Title, &track.VideoID, &track.SourceURL, &track.StorageKey, &track.FileURL, &track.CreatedAt); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}

// GetByID returns the track only when it belongs to the given owner.
func (r *TrackRepositoryPG) GetByID(ctx context.Context, id, ownerID string) (*domain.Track, error) {
	var track domain.Track
	row := r.pool.QueryRow(ctx, sqlinline.QGetTrackByID, id, ownerID)
	if err := row.Scan(&track.ID, &track.OwnerID, &track.Title, &track.VideoID, &track.SourceURL, &track.StorageKey, &track.FileURL, &track.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &track, nil
}

// Delete removes the track only when it belongs to the given owner.
func (r *TrackRepositoryPG) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, sqlinline.QDeleteTrack, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
