package handler

import (
	"encoding/json"
	"net/http"

	"codelab/internal/api/middleware"
	"codelab/internal/app/service"
	"codelab/internal/common"

	"github.com/go-chi/chi/v5"
)

type ExecutionHandler struct {
	executionService *service.ExecutionService
}

func NewExecutionHandler(es *service.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{executionService: es}
}

func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.executeCode)
}

func (h *ExecutionHandler) executeCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context", common.ErrUnauthorized)
		return
	}

	var req service.ExecuteCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	submission, err := h.executionService.ExecuteCode(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Error in code execution!", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Code executed successfully!",
		"submission": submission,
	})
}
