package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type DealHealthHandler struct {
  log               *logger.Logger
  dealHealthService services.DealHealthService
}

func NewDealHealthHandler(log *logger.Logger, dealHealthService services.DealHealthService) *DealHealthHandler {
  return &DealHealthHandler{
    log:               log.With("handler", "DealHealthHandler"),
    dealHealthService: dealHealthService,
  }
}

func (h *DealHealthHandler) Recompute(c *gin.Context) {
  submissionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  health, rErr := h.dealHealthService.RecomputeSubmission(c.Request.Context(), submissionID)
  if rErr != nil {
    RespondError(c, http.StatusBadRequest, "recompute_failed", rErr)
    return
  }
  RespondOK(c, gin.H{"deal_health": health})
}

func (h *DealHealthHandler) RecomputeAll(c *gin.Context) {
  updated, err := h.dealHealthService.RecomputeAll(c.Request.Context())
  if err != nil {
    h.log.Error("RecomputeAll failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "recompute_failed", err)
    return
  }
  RespondOK(c, gin.H{"updated": updated})
}

func (h *DealHealthHandler) GetBySubmission(c *gin.Context) {
  submissionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  health, gErr := h.dealHealthService.GetBySubmission(c.Request.Context(), submissionID)
  if gErr != nil {
    RespondError(c, http.StatusInternalServerError, "load_deal_health_failed", gErr)
    return
  }
  if health == nil {
    RespondError(c, http.StatusNotFound, "deal_health_not_found", nil)
    return
  }
  RespondOK(c, gin.H{"deal_health": health})
}

func (h *DealHealthHandler) ListByRisk(c *gin.Context) {
  rows, err := h.dealHealthService.ListByRisk(c.Request.Context(), c.Query("risk_level"))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_deal_health_failed", err)
    return
  }
  RespondOK(c, gin.H{"deal_health": rows})
}
