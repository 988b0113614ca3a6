package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/providers/youtube"
	"server/internal/storage"
)

// TrackConverter runs one source URL through the acquisition pipeline.
type TrackConverter interface {
	Convert(ctx context.Context, ownerID, sourceURL string) (*domain.Track, error)
}

// PlaylistLister queries the external catalog API for playlist contents.
type PlaylistLister interface {
	ListPlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistItem, error)
}

// App bundles the dependencies shared by the HTTP handlers.
type App struct {
	Logger    zerolog.Logger
	Tracks    domain.TrackRepository
	Store     storage.ObjectStore
	Converter TrackConverter
	Playlist  PlaylistLister
}

func NewApp(logger zerolog.Logger, tracks domain.TrackRepository, store storage.ObjectStore, converter TrackConverter, playlist PlaylistLister) *App {
	return &App{Logger: logger, Tracks: tracks, Store: store, Converter: converter, Playlist: playlist}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": kind, "message": message}})
}

// domainError maps a pipeline error onto exactly one response. Status codes
// distinguish caller mistakes from source problems and from infrastructure
// failures so operators can tell them apart.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid or unsupported source URL")
	case errors.Is(err, domain.ErrPolicyRejected):
		a.error(w, http.StatusBadRequest, "policy_rejected", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrSourceNotFound):
		a.error(w, http.StatusNotFound, "source_not_found", "source item not found")
	case errors.Is(err, domain.ErrSourceUnavailable):
		a.error(w, http.StatusNotFound, "source_unavailable", "source item is not accessible")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrTranscodeFailure):
		a.Logger.Error().Err(err).Msg("transcode failure")
		a.error(w, http.StatusInternalServerError, "transcode_failure", "audio conversion failed")
	case errors.Is(err, domain.ErrStorageFailure), errors.Is(err, domain.ErrMetadataFailure):
		a.Logger.Error().Err(err).Msg("storage failure")
		a.error(w, http.StatusInternalServerError, "storage_failure", "failed to persist converted track")
	default:
		a.Logger.Error().Err(err).Msg("unhandled request error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
