// Package ytdlp resolves source media metadata by shelling out to the
// yt-dlp binary. Only metadata is fetched; the media payload itself is
// never transferred by this package.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

var allowedHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// Resolver resolves stream metadata for a source URL.
type Resolver struct {
	binaryPath string
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewResolver constructs a resolver. If binaryPath is empty, "yt-dlp" is
// looked up on PATH.
func NewResolver(binaryPath string, timeout time.Duration, logger zerolog.Logger) *Resolver {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{binaryPath: binaryPath, timeout: timeout, logger: logger}
}

// videoInfo is the subset of yt-dlp's JSON dump the resolver consumes.
type videoInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	URL      string  `json:"url"`
}

// Resolve fetches stream metadata for sourceURL. The URL is validated
// before any external call is made.
func (r *Resolver) Resolve(ctx context.Context, sourceURL string) (*domain.SourceDescriptor, error) {
	if err := ValidateURL(sourceURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binaryPath,
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		"--no-playlist",
		"-f", "bestaudio",
		sourceURL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("resolve %s: %w", sourceURL, ctxErr)
		}
		return nil, mapExecError(sourceURL, stderr.String(), err)
	}

	var info videoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("resolve %s: decode metadata: %w: %v", sourceURL, domain.ErrSourceUnavailable, err)
	}
	if info.ID == "" || info.URL == "" {
		return nil, fmt.Errorf("resolve %s: incomplete metadata: %w", sourceURL, domain.ErrSourceUnavailable)
	}

	r.logger.Debug().Str("video_id", info.ID).Float64("duration", info.Duration).Msg("resolved source metadata")

	return &domain.SourceDescriptor{
		SourceURL:       sourceURL,
		Title:           info.Title,
		VideoID:         info.ID,
		DurationSeconds: int(info.Duration),
		AudioStreamURL:  info.URL,
	}, nil
}

// ValidateURL checks that sourceURL is a syntactically valid URL for the
// supported platform. It never performs network I/O.
func ValidateURL(sourceURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return fmt.Errorf("parse source url: %w", domain.ErrInvalidInput)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("source url scheme %q: %w", parsed.Scheme, domain.ErrInvalidInput)
	}
	host := strings.ToLower(parsed.Hostname())
	if !allowedHosts[host] {
		return fmt.Errorf("unsupported media host %q: %w", host, domain.ErrInvalidInput)
	}
	if videoIDFromURL(parsed) == "" {
		return fmt.Errorf("no video id in source url: %w", domain.ErrInvalidInput)
	}
	return nil
}

func videoIDFromURL(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if host == "youtu.be" {
		return strings.Trim(u.Path, "/")
	}
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			if idx := strings.IndexByte(rest, '/'); idx >= 0 {
				rest = rest[:idx]
			}
			return rest
		}
	}
	return ""
}

// mapExecError translates yt-dlp failures into the domain error taxonomy by
// sniffing stderr, mirroring how the upstream tool reports conditions.
func mapExecError(sourceURL, stderr string, execErr error) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "this video is not available"),
		strings.Contains(lower, "404"):
		return fmt.Errorf("resolve %s: %w", sourceURL, domain.ErrSourceNotFound)
	case strings.Contains(lower, "private video"),
		strings.Contains(lower, "sign in"),
		strings.Contains(lower, "age-restricted"),
		strings.Contains(lower, "not available in your country"):
		return fmt.Errorf("resolve %s: %w", sourceURL, domain.ErrSourceUnavailable)
	case strings.Contains(lower, "is not a valid url"),
		strings.Contains(lower, "unsupported url"):
		return fmt.Errorf("resolve %s: %w", sourceURL, domain.ErrInvalidInput)
	}
	tail := stderr
	if len(tail) > 200 {
		tail = tail[len(tail)-200:]
	}
	return fmt.Errorf("resolve %s: %w: %v (%s)", sourceURL, domain.ErrSourceUnavailable, execErr, strings.TrimSpace(tail))
}
