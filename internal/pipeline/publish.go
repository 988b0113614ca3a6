package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"server/internal/domain"
	"server/internal/storage"
)

const artifactContentType = "audio/mpeg"

// Publisher commits a completed audio buffer to the content store and
// records its metadata. The two writes form one logical unit: a metadata
// failure triggers a compensating delete of the uploaded object so no
// orphan accumulates.
type Publisher struct {
	Store   storage.ObjectStore
	Tracks  domain.TrackRepository
	BaseURL string
	Logger  zerolog.Logger
}

// Publish uploads data under a deterministic per-user key and inserts the
// track record. On full success the persisted record is returned.
func (p *Publisher) Publish(ctx context.Context, ownerID string, data []byte, descriptor domain.SourceDescriptor) (*domain.Track, error) {
	filename := fmt.Sprintf("%s_%d_%s.mp3", SanitizeTitle(descriptor.Title), time.Now().UnixMilli(), uuid.NewString()[:8])
	key := ownerID + "/" + filename

	storedKey, err := p.Store.Put(ctx, key, data, artifactContentType)
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %v: %w", err, domain.ErrStorageFailure)
	}

	track := &domain.Track{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Title:      descriptor.Title,
		VideoID:    descriptor.VideoID,
		SourceURL:  descriptor.SourceURL,
		StorageKey: storedKey,
		FileURL:    strings.TrimRight(p.BaseURL, "/") + "/" + storedKey,
	}

	if err := p.Tracks.Insert(ctx, track); err != nil {
		p.Logger.Error().Err(err).Str("storage_key", storedKey).Msg("metadata insert failed after upload, deleting object")
		// Compensation runs even when the request context is gone.
		if delErr := p.Store.Delete(context.WithoutCancel(ctx), storedKey); delErr != nil {
			p.Logger.Error().Err(delErr).Str("storage_key", storedKey).Msg("compensating delete failed, orphaned object left in store")
		}
		return nil, fmt.Errorf("insert track metadata: %v: %w", err, domain.ErrMetadataFailure)
	}

	if track.CreatedAt.IsZero() {
		track.CreatedAt = time.Now().UTC()
	}
	return track, nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeTitle reduces a source title to a storage-safe filename fragment:
// diacritics are stripped via unicode decomposition, everything outside
// [a-zA-Z0-9] collapses to underscores, and the result is capped at 40 bytes.
func SanitizeTitle(title string) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, title); err == nil {
		title = stripped
	}
	title = nonAlphanumeric.ReplaceAllString(title, "_")
	title = strings.Trim(title, "_")
	if len(title) > 40 {
		title = title[:40]
		title = strings.TrimRight(title, "_")
	}
	if title == "" {
		return "track"
	}
	return title
}
