package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/pkg/archive"
)

type convertRequest struct {
	SourceURL string `json:"source_url"`
}

type trackResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	VideoID   string    `json:"video_id"`
	SourceURL string    `json:"source_url"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

func toTrackResponse(t domain.Track) trackResponse {
	return trackResponse{
		ID:        t.ID,
		Title:     t.Title,
		VideoID:   t.VideoID,
		SourceURL: t.SourceURL,
		FileURL:   t.FileURL,
		CreatedAt: t.CreatedAt,
	}
}

// TracksConvert accepts a source URL and runs it through the full pipeline.
// The request is processed synchronously; the response carries the stored
// track on success.
func (a *App) TracksConvert(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid payload")
		return
	}
	if req.SourceURL == "" {
		a.error(w, http.StatusBadRequest, "invalid_input", "source_url is required")
		return
	}

	track, err := a.Converter.Convert(r.Context(), userID, req.SourceURL)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toTrackResponse(*track))
}

// TracksList returns the caller's tracks, newest first.
func (a *App) TracksList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	tracks, err := a.Tracks.ListByOwner(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list tracks")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list tracks")
		return
	}

	items := make([]trackResponse, 0, len(tracks))
	for _, track := range tracks {
		items = append(items, toTrackResponse(track))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// TracksDownload streams the stored audio bytes of one owned track.
func (a *App) TracksDownload(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	trackID := chi.URLParam(r, "id")

	track, err := a.Tracks.GetByID(r.Context(), trackID, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	data, err := a.Store.Get(r.Context(), track.StorageKey)
	if err != nil {
		a.Logger.Error().Err(err).Str("storage_key", track.StorageKey).Msg("read stored object")
		a.domainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(track.StorageKey)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// TracksArchive bundles all of the caller's stored tracks into one zip.
func (a *App) TracksArchive(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	tracks, err := a.Tracks.ListByOwner(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list tracks for archive")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list tracks")
		return
	}
	if len(tracks) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no tracks to archive")
		return
	}

	entries := make([]archive.Entry, 0, len(tracks))
	for _, track := range tracks {
		data, err := a.Store.Get(r.Context(), track.StorageKey)
		if err != nil {
			// A missing object is an inconsistency worth surfacing, not
			// silently skipping.
			a.Logger.Error().Err(err).Str("storage_key", track.StorageKey).Msg("archive: stored object unreadable")
			a.error(w, http.StatusInternalServerError, "storage_failure", "failed to read stored track")
			return
		}
		entries = append(entries, archive.Entry{Name: path.Base(track.StorageKey), Data: data})
	}

	zipped, err := archive.Build(entries)
	if err != nil {
		a.Logger.Error().Err(err).Msg("build archive")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="tracks.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(zipped)
}

// TracksDelete removes one owned track: the metadata record first, then the
// stored object. A leftover object after a failed store delete is logged as
// an inconsistency rather than failing the request.
func (a *App) TracksDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	trackID := chi.URLParam(r, "id")

	track, err := a.Tracks.GetByID(r.Context(), trackID, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if err := a.Tracks.Delete(r.Context(), trackID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.domainError(w, err)
			return
		}
		a.Logger.Error().Err(err).Msg("delete track record")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete track")
		return
	}
	if err := a.Store.Delete(r.Context(), track.StorageKey); err != nil {
		a.Logger.Error().Err(err).Str("storage_key", track.StorageKey).Msg("orphaned object left after record delete")
	}

	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}
