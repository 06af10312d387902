package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type InfluenceHandler struct {
  log              *logger.Logger
  influenceService services.InfluenceService
}

func NewInfluenceHandler(log *logger.Logger, influenceService services.InfluenceService) *InfluenceHandler {
  return &InfluenceHandler{
    log:              log.With("handler", "InfluenceHandler"),
    influenceService: influenceService,
  }
}

func (h *InfluenceHandler) Run(c *gin.Context) {
  result, err := h.influenceService.RunOnce(c.Request.Context())
  if err != nil {
    h.log.Error("Influence run failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "influence_run_failed", err)
    return
  }
  RespondOK(c, gin.H{"result": result})
}

func (h *InfluenceHandler) ListAlerts(c *gin.Context) {
  limit, offset := paginationParams(c)
  alerts, err := h.influenceService.ListOpenAlerts(c.Request.Context(), limit, offset)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_alerts_failed", err)
    return
  }
  RespondOK(c, gin.H{"alerts": alerts})
}

func (h *InfluenceHandler) DismissAlert(c *gin.Context) {
  alertID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_alert_id", err)
    return
  }
  if dErr := h.influenceService.DismissAlert(c.Request.Context(), alertID); dErr != nil {
    RespondError(c, http.StatusNotFound, "dismiss_alert_failed", dErr)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

// RecordEngagement ingests email open / link click webhooks from the mail
// provider plus manual engagement marks from the UI.
func (h *InfluenceHandler) RecordEngagement(c *gin.Context) {
  var req struct {
    SubmissionID uuid.UUID `json:"submission_id"`
    Kind         string    `json:"kind"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  if rErr := h.influenceService.RecordEngagement(c.Request.Context(), req.SubmissionID, req.Kind); rErr != nil {
    RespondError(c, http.StatusBadRequest, "record_engagement_failed", rErr)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
