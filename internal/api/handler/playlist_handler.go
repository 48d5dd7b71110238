package handler

import (
	"encoding/json"
	"net/http"

	"codelab/internal/api/middleware"
	"codelab/internal/app/service"
	"codelab/internal/common"

	"github.com/go-chi/chi/v5"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(ps *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: ps}
}

func (h *PlaylistHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.getPlaylists)
	r.Post("/", h.createPlaylist)
	r.Get("/{playlistID}", h.getPlaylist)
	r.Delete("/{playlistID}", h.deletePlaylist)
	r.Post("/{playlistID}/problems", h.addProblems)
	r.Delete("/{playlistID}/problems", h.removeProblems)
}

type playlistProblemsRequest struct {
	ProblemIDs []string `json:"problem_ids"`
}

func (h *PlaylistHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	var req service.CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	playlist, err := h.playlistService.CreatePlaylist(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in creating playlist!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "Playlist created successfully!",
		"playlist": playlist,
	})
}

func (h *PlaylistHandler) getPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	playlists, err := h.playlistService.GetPlaylists(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in fetching playlists!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Playlists fetched successfully!",
		"playlists": playlists,
	})
}

func (h *PlaylistHandler) getPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	playlist, err := h.playlistService.GetPlaylist(r.Context(), chi.URLParam(r, "playlistID"), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in fetching playlist!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Playlist fetched successfully!",
		"playlist": playlist,
	})
}

func (h *PlaylistHandler) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	if err := h.playlistService.DeletePlaylist(r.Context(), chi.URLParam(r, "playlistID"), userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in deleting playlist!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Playlist deleted successfully!",
	})
}

func (h *PlaylistHandler) addProblems(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	var req playlistProblemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	if err := h.playlistService.AddProblems(r.Context(), chi.URLParam(r, "playlistID"), userID, req.ProblemIDs); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in adding problems to playlist!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Problems added to playlist successfully!",
	})
}

func (h *PlaylistHandler) removeProblems(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	var req playlistProblemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	if err := h.playlistService.RemoveProblems(r.Context(), chi.URLParam(r, "playlistID"), userID, req.ProblemIDs); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in removing problems from playlist!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Problems removed from playlist successfully!",
	})
}
