// Package youtube wraps the YouTube Data API v3 calls used by the catalog
// endpoints. It is a thin read-only client with no internal state.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"server/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Options controls how the Data API client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client queries the YouTube Data API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Data API client from options, applying defaults.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{apiKey: opts.APIKey, baseURL: baseURL, httpClient: httpClient}
}

// PlaylistItem is one entry of a playlist listing.
type PlaylistItem struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	Position     int    `json:"position"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Position     int    `json:"position"`
			ResourceID   struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
			Thumbnails struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// ListPlaylistItems returns up to 50 entries of the playlist, in playlist
// order. The call is read-only.
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, fmt.Errorf("playlist id is required: %w", domain.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("youtube api key is not configured: %w", domain.ErrSourceUnavailable)
	}

	query := url.Values{
		"part":       {"snippet"},
		"playlistId": {playlistID},
		"maxResults": {"50"},
		"key":        {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/playlistItems?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build playlist request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("playlist request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, domain.ErrSourceNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("playlist request status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrSourceUnavailable)
	}

	var decoded playlistItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode playlist response: %w", err)
	}

	items := make([]PlaylistItem, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		items = append(items, PlaylistItem{
			VideoID:      item.Snippet.ResourceID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			Position:     item.Snippet.Position,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		})
	}
	return items, nil
}
