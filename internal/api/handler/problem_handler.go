package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"codelab/internal/api/middleware"
	"codelab/internal/app/service"
	"codelab/internal/common"
	"codelab/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Get("/", h.listProblems)
	r.Get("/solved", h.listSolvedProblems)
	r.Get("/{problemID}", h.getProblem)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createProblem)
		adminRouter.Put("/{problemID}", h.updateProblem)
		adminRouter.Delete("/{problemID}", h.deleteProblem)
	})
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.ProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	problem, err := h.problemService.CreateProblem(r.Context(), userID, userRole, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error creating problem", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Problem created successfully!",
		"problem": problem,
	})
}

func (h *ProblemHandler) updateProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.ProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	problem, err := h.problemService.UpdateProblem(r.Context(), problemID, userRole, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error updating problem", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Problem updated successfully!",
		"problem": problem,
	})
}

func (h *ProblemHandler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())

	if err := h.problemService.DeleteProblem(r.Context(), problemID, userRole); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error deleting problem", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Problem deleted successfully!",
	})
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")

	problem, err := h.problemService.GetProblem(r.Context(), problemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error fetching problem", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Problem fetched successfully!",
		"problem": problem,
	})
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	difficulty := model.ProblemDifficulty(r.URL.Query().Get("difficulty"))
	tag := r.URL.Query().Get("tag")

	problems, total, err := h.problemService.ListProblems(r.Context(), page, pageSize, difficulty, tag)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error fetching problems", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Problems fetched successfully!",
		"problems": problems,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (h *ProblemHandler) listSolvedProblems(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	problems, err := h.problemService.ListSolvedProblems(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error fetching solved problems", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Solved problems fetched successfully!",
		"problems": problems,
	})
}
