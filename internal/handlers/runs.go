package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
)

// RunsHandler exposes background run status for polling clients.
type RunsHandler struct {
  jobRunRepo repos.JobRunRepo
}

func NewRunsHandler(jobRunRepo repos.JobRunRepo) *RunsHandler {
  return &RunsHandler{jobRunRepo: jobRunRepo}
}

func (h *RunsHandler) Get(c *gin.Context) {
  runID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
    return
  }
  runs, gErr := h.jobRunRepo.GetByIDs(c.Request.Context(), nil, []uuid.UUID{runID})
  if gErr != nil {
    RespondError(c, http.StatusInternalServerError, "load_run_failed", gErr)
    return
  }
  if len(runs) == 0 {
    RespondError(c, http.StatusNotFound, "run_not_found", nil)
    return
  }
  RespondOK(c, gin.H{"run": runs[0]})
}
