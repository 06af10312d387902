package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type SummaryHandler struct {
  log            *logger.Logger
  summaryService services.SummaryService
}

func NewSummaryHandler(log *logger.Logger, summaryService services.SummaryService) *SummaryHandler {
  return &SummaryHandler{
    log:            log.With("handler", "SummaryHandler"),
    summaryService: summaryService,
  }
}

func (h *SummaryHandler) Generate(c *gin.Context) {
  submissionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  summary, gErr := h.summaryService.GenerateClientSummary(c.Request.Context(), submissionID)
  if gErr != nil {
    h.log.Error("GenerateClientSummary failed", "submission_id", submissionID, "error", gErr)
    RespondError(c, http.StatusBadGateway, "generate_summary_failed", gErr)
    return
  }
  RespondOK(c, gin.H{"summary": summary})
}

func (h *SummaryHandler) GetLatestForCandidate(c *gin.Context) {
  candidateID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_candidate_id", err)
    return
  }
  summary, gErr := h.summaryService.GetLatestForCandidate(c.Request.Context(), candidateID)
  if gErr != nil {
    RespondError(c, http.StatusInternalServerError, "load_summary_failed", gErr)
    return
  }
  if summary == nil {
    RespondError(c, http.StatusNotFound, "summary_not_found", nil)
    return
  }
  RespondOK(c, gin.H{"summary": summary})
}
