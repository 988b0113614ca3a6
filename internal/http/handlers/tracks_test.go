package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/providers/youtube"
)

type stubTracks struct {
	tracks    []domain.Track
	insertErr error
	deleted   []string
}

func (s *stubTracks) Insert(ctx context.Context, track *domain.Track) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.tracks = append(s.tracks, *track)
	return nil
}

func (s *stubTracks) ListByOwner(ctx context.Context, ownerID string) ([]domain.Track, error) {
	var out []domain.Track
	for _, t := range s.tracks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTracks) GetByID(ctx context.Context, id, ownerID string) (*domain.Track, error) {
	for _, t := range s.tracks {
		if t.ID == id && t.OwnerID == ownerID {
			track := t
			return &track, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubTracks) Delete(ctx context.Context, id, ownerID string) error {
	for i, t := range s.tracks {
		if t.ID == id && t.OwnerID == ownerID {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

type stubStore struct {
	objects map[string][]byte
	deletes []string
}

func (s *stubStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return key, nil
}

func (s *stubStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.objects, key)
	return nil
}

type stubConverter struct {
	track *domain.Track
	err   error
	calls int
}

func (s *stubConverter) Convert(ctx context.Context, ownerID, sourceURL string) (*domain.Track, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.track, nil
}

type stubPlaylist struct {
	items []youtube.PlaylistItem
	err   error
}

func (s *stubPlaylist) ListPlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func newTestApp(tracks *stubTracks, store *stubStore, converter *stubConverter, playlist *stubPlaylist) *App {
	return NewApp(zerolog.Nop(), tracks, store, converter, playlist)
}

func withUser(userID string) context.Context {
	return middleware.ContextWithUserID(context.Background(), userID)
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestTracksConvert_Success(t *testing.T) {
	converter := &stubConverter{track: &domain.Track{
		ID:      "t-1",
		OwnerID: "user-1",
		Title:   "Me at the zoo",
		VideoID: "jNQXAC9IVRw",
		FileURL: "http://store.local/user-1/Me_at_the_zoo_1.mp3",
	}}
	app := newTestApp(&stubTracks{}, &stubStore{}, converter, &stubPlaylist{})

	req := httptest.NewRequest("POST", "/v1/tracks", strings.NewReader(`{"source_url":"https://youtu.be/jNQXAC9IVRw"}`))
	req = req.WithContext(withUser("user-1"))
	rr := httptest.NewRecorder()

	app.TracksConvert(rr, req)

	if rr.Code != 201 {
		t.Fatalf("status: got %d, want 201, body %s", rr.Code, rr.Body)
	}
	var payload trackResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != "t-1" || payload.VideoID != "jNQXAC9IVRw" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestTracksConvert_RequiresUser(t *testing.T) {
	converter := &stubConverter{}
	app := newTestApp(&stubTracks{}, &stubStore{}, converter, &stubPlaylist{})

	req := httptest.NewRequest("POST", "/v1/tracks", strings.NewReader(`{"source_url":"https://youtu.be/x"}`))
	rr := httptest.NewRecorder()

	app.TracksConvert(rr, req)

	if rr.Code != 401 {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
	if converter.calls != 0 {
		t.Fatal("pipeline must not run without an authenticated user")
	}
}

func TestTracksConvert_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"invalid input", fmt.Errorf("bad url: %w", domain.ErrInvalidInput), 400, "invalid_input"},
		{"policy", &domain.PolicyError{DurationSeconds: 400, MinSeconds: 1, MaxSeconds: 360}, 400, "policy_rejected"},
		{"not found", fmt.Errorf("gone: %w", domain.ErrSourceNotFound), 404, "source_not_found"},
		{"unavailable", fmt.Errorf("private: %w", domain.ErrSourceUnavailable), 404, "source_unavailable"},
		{"transcode", fmt.Errorf("boom: %w", domain.ErrTranscodeFailure), 500, "transcode_failure"},
		{"storage", fmt.Errorf("bucket: %w", domain.ErrStorageFailure), 500, "storage_failure"},
		{"metadata", fmt.Errorf("insert: %w", domain.ErrMetadataFailure), 500, "storage_failure"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubTracks{}, &stubStore{}, &stubConverter{err: tc.err}, &stubPlaylist{})

			req := httptest.NewRequest("POST", "/v1/tracks", strings.NewReader(`{"source_url":"https://youtu.be/x"}`))
			req = req.WithContext(withUser("user-1"))
			rr := httptest.NewRecorder()

			app.TracksConvert(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.want)
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload.Error.Code != tc.code {
				t.Fatalf("error code: got %q, want %q", payload.Error.Code, tc.code)
			}
		})
	}
}

func TestTracksList_ScopedToOwner(t *testing.T) {
	tracks := &stubTracks{tracks: []domain.Track{
		{ID: "t-1", OwnerID: "user-1", Title: "Mine", CreatedAt: time.Now()},
		{ID: "t-2", OwnerID: "user-2", Title: "Theirs", CreatedAt: time.Now()},
	}}
	app := newTestApp(tracks, &stubStore{}, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("GET", "/v1/tracks", nil)
	req = req.WithContext(withUser("user-1"))
	rr := httptest.NewRecorder()

	app.TracksList(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status: got %d", rr.Code)
	}
	var payload struct {
		Items []trackResponse `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].ID != "t-1" {
		t.Fatalf("expected only the caller's track, got %+v", payload.Items)
	}
}

func TestTracksDownload_StreamsStoredBytes(t *testing.T) {
	tracks := &stubTracks{tracks: []domain.Track{
		{ID: "t-1", OwnerID: "user-1", StorageKey: "user-1/song.mp3"},
	}}
	store := &stubStore{objects: map[string][]byte{"user-1/song.mp3": []byte("mp3-bytes")}}
	app := newTestApp(tracks, store, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("GET", "/v1/tracks/t-1/download", nil)
	req = req.WithContext(withURLParam(withUser("user-1"), "id", "t-1"))
	rr := httptest.NewRecorder()

	app.TracksDownload(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status: got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "audio/mpeg" {
		t.Errorf("content type: got %q", rr.Header().Get("Content-Type"))
	}
	if rr.Body.String() != "mp3-bytes" {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestTracksDownload_OtherUsersTrackIsNotFound(t *testing.T) {
	tracks := &stubTracks{tracks: []domain.Track{
		{ID: "t-1", OwnerID: "user-2", StorageKey: "user-2/song.mp3"},
	}}
	app := newTestApp(tracks, &stubStore{}, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("GET", "/v1/tracks/t-1/download", nil)
	req = req.WithContext(withURLParam(withUser("user-1"), "id", "t-1"))
	rr := httptest.NewRecorder()

	app.TracksDownload(rr, req)

	if rr.Code != 404 {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}

func TestTracksDelete_RemovesRecordAndObject(t *testing.T) {
	tracks := &stubTracks{tracks: []domain.Track{
		{ID: "t-1", OwnerID: "user-1", StorageKey: "user-1/song.mp3"},
	}}
	store := &stubStore{objects: map[string][]byte{"user-1/song.mp3": []byte("mp3")}}
	app := newTestApp(tracks, store, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("DELETE", "/v1/tracks/t-1", nil)
	req = req.WithContext(withURLParam(withUser("user-1"), "id", "t-1"))
	rr := httptest.NewRecorder()

	app.TracksDelete(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}
	if len(tracks.deleted) != 1 {
		t.Fatal("record not deleted")
	}
	if len(store.deletes) != 1 || store.deletes[0] != "user-1/song.mp3" {
		t.Fatalf("stored object not deleted: %v", store.deletes)
	}
}

func TestTracksDelete_OtherUsersTrack(t *testing.T) {
	tracks := &stubTracks{tracks: []domain.Track{
		{ID: "t-1", OwnerID: "user-2", StorageKey: "user-2/song.mp3"},
	}}
	store := &stubStore{objects: map[string][]byte{"user-2/song.mp3": []byte("mp3")}}
	app := newTestApp(tracks, store, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("DELETE", "/v1/tracks/t-1", nil)
	req = req.WithContext(withURLParam(withUser("user-1"), "id", "t-1"))
	rr := httptest.NewRecorder()

	app.TracksDelete(rr, req)

	if rr.Code != 404 {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	if len(store.deletes) != 0 {
		t.Fatal("must not delete another user's object")
	}
}

func TestTracksArchive(t *testing.T) {
	tracks := &stubTracks{tracks: []domain.Track{
		{ID: "t-1", OwnerID: "user-1", StorageKey: "user-1/a.mp3"},
		{ID: "t-2", OwnerID: "user-1", StorageKey: "user-1/b.mp3"},
	}}
	store := &stubStore{objects: map[string][]byte{
		"user-1/a.mp3": []byte("aaa"),
		"user-1/b.mp3": []byte("bbb"),
	}}
	app := newTestApp(tracks, store, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("GET", "/v1/tracks/archive", nil)
	req = req.WithContext(withUser("user-1"))
	rr := httptest.NewRecorder()

	app.TracksArchive(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}
	if rr.Header().Get("Content-Type") != "application/zip" {
		t.Errorf("content type: got %q", rr.Header().Get("Content-Type"))
	}
	if rr.Body.Len() == 0 {
		t.Error("empty archive body")
	}
}

func TestPlaylistItems(t *testing.T) {
	playlist := &stubPlaylist{items: []youtube.PlaylistItem{
		{VideoID: "vid1", Title: "First", Position: 0},
	}}
	app := newTestApp(&stubTracks{}, &stubStore{}, &stubConverter{}, playlist)

	req := httptest.NewRequest("POST", "/v1/playlist", strings.NewReader(`{"playlist_id":"PL123"}`))
	req = req.WithContext(withUser("user-1"))
	rr := httptest.NewRecorder()

	app.PlaylistItems(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}
	var payload struct {
		Items []youtube.PlaylistItem `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].VideoID != "vid1" {
		t.Fatalf("unexpected items: %+v", payload.Items)
	}
}

func TestPlaylistItems_MissingID(t *testing.T) {
	app := newTestApp(&stubTracks{}, &stubStore{}, &stubConverter{}, &stubPlaylist{})

	req := httptest.NewRequest("POST", "/v1/playlist", strings.NewReader(`{}`))
	req = req.WithContext(withUser("user-1"))
	rr := httptest.NewRecorder()

	app.PlaylistItems(rr, req)

	if rr.Code != 400 {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}
