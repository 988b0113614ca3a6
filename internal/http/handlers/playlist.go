package handlers

import (
	"encoding/json"
	"net/http"
)

type playlistRequest struct {
	PlaylistID string `json:"playlist_id"`
}

// PlaylistItems proxies a read-only playlist listing from the catalog API so
// the UI can offer per-item conversion.
func (a *App) PlaylistItems(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid payload")
		return
	}
	if req.PlaylistID == "" {
		a.error(w, http.StatusBadRequest, "invalid_input", "playlist_id is required")
		return
	}

	items, err := a.Playlist.ListPlaylistItems(r.Context(), req.PlaylistID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
