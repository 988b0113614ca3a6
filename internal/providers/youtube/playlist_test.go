package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/domain"
)

func TestListPlaylistItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlistItems" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("playlistId") != "PL123" || q.Get("part") != "snippet" || q.Get("maxResults") != "50" || q.Get("key") != "test-key" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"snippet":{"title":"First","channelTitle":"Chan","position":0,
				"resourceId":{"videoId":"vid1"},"thumbnails":{"medium":{"url":"https://img.local/1"}}}},
			{"snippet":{"title":"Second","channelTitle":"Chan","position":1,
				"resourceId":{"videoId":"vid2"},"thumbnails":{"medium":{"url":"https://img.local/2"}}}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL, HTTPClient: server.Client()})

	items, err := client.ListPlaylistItems(context.Background(), "PL123")
	if err != nil {
		t.Fatalf("list playlist: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].VideoID != "vid1" || items[0].Title != "First" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Position != 1 {
		t.Errorf("unexpected second position: %d", items[1].Position)
	}
}

func TestListPlaylistItems_MissingID(t *testing.T) {
	client := NewClient(Options{APIKey: "k"})
	_, err := client.ListPlaylistItems(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListPlaylistItems_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403}}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
	_, err := client.ListPlaylistItems(context.Background(), "PL123")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
