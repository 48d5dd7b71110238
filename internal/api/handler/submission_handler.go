package handler

import (
	"net/http"

	"codelab/internal/api/middleware"
	"codelab/internal/app/service"
	"codelab/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.getMySubmissions)
	r.Get("/{submissionID}", h.getSubmission)
	r.Get("/problem/{problemID}", h.getMySubmissionsForProblem)
	r.Get("/problem/{problemID}/count", h.getSubmissionCountForProblem)
}

func (h *SubmissionHandler) getMySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	submissions, err := h.submissionService.GetMySubmissions(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in fetching submissions!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Submissions fetched successfully!",
		"submissions": submissions,
	})
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	submission, err := h.submissionService.GetSubmission(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in fetching submission!", err)
		return
	}
	if submission.UserID != userID {
		common.RespondWithError(w, http.StatusForbidden, "Submission belongs to another user", common.ErrForbidden)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Submission fetched successfully!",
		"submission": submission,
	})
}

func (h *SubmissionHandler) getMySubmissionsForProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}
	problemID := chi.URLParam(r, "problemID")

	submissions, err := h.submissionService.GetMySubmissionsForProblem(r.Context(), userID, problemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in fetching submissions!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Submissions fetched successfully!",
		"submissions": submissions,
	})
}

func (h *SubmissionHandler) getSubmissionCountForProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")

	count, err := h.submissionService.GetSubmissionCountForProblem(r.Context(), problemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in fetching submission count!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Submissions count fetched successfully!",
		"count":   count,
	})
}
