// Package pipeline implements the media acquisition-and-transcode pipeline:
// resolve source metadata, admit by duration policy, stream the audio
// through ffmpeg, buffer the encoded output, and commit it to storage plus
// a metadata record.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Resolver resolves stream metadata without transferring the media payload.
type Resolver interface {
	Resolve(ctx context.Context, sourceURL string) (*domain.SourceDescriptor, error)
}

// Fetcher opens the source audio stream for reading.
type Fetcher interface {
	Fetch(ctx context.Context, streamURL string) (io.ReadCloser, error)
}

// Transcoder converts a source audio stream into encoded output.
type Transcoder interface {
	Transcode(ctx context.Context, src io.Reader) (io.ReadCloser, error)
}

// Converter runs one source URL through the full pipeline. Each request owns
// its own stream handles and buffer; converters hold no per-request state
// and are safe for concurrent use.
type Converter struct {
	Resolver       Resolver
	Policy         domain.AdmissionPolicy
	Fetcher        Fetcher
	Transcoder     Transcoder
	Publisher      *Publisher
	MaxOutputBytes int64
	Timeout        time.Duration
	Logger         zerolog.Logger
}

// Convert runs the full pipeline for a single request: resolve, admit,
// fetch, transcode, collect, publish. A rejected descriptor returns before any
// transfer begins; every failure path releases all stream handles and leaves
// neither a stored object nor a metadata record behind.
func (c *Converter) Convert(ctx context.Context, ownerID, sourceURL string) (*domain.Track, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id is required: %w", domain.ErrUnauthorized)
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	started := time.Now()

	descriptor, err := c.Resolver.Resolve(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	if decision := c.Policy.Evaluate(*descriptor); !decision.Accepted {
		c.Logger.Info().Str("video_id", descriptor.VideoID).Int("duration_s", descriptor.DurationSeconds).Msg("source rejected by admission policy")
		return nil, decision.Reason
	}

	src, err := c.Fetcher.Fetch(ctx, descriptor.AudioStreamURL)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := c.Transcoder.Transcode(ctx, src)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	data, err := Collect(out, c.MaxOutputBytes)
	if err != nil {
		return nil, err
	}

	track, err := c.Publisher.Publish(ctx, ownerID, data, *descriptor)
	if err != nil {
		return nil, err
	}

	c.Logger.Info().
		Str("owner_id", ownerID).
		Str("video_id", descriptor.VideoID).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(started)).
		Msg("track converted")

	return track, nil
}
