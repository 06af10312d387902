package handlers

import (
  "errors"
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/scheduling"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

// RespondHandler serves the public, unauthenticated endpoints behind the
// tokenized links mailed to candidates. The token is the only credential.
type RespondHandler struct {
  log              *logger.Logger
  interviewService services.InterviewService
}

func NewRespondHandler(log *logger.Logger, interviewService services.InterviewService) *RespondHandler {
  return &RespondHandler{
    log:              log.With("handler", "RespondHandler"),
    interviewService: interviewService,
  }
}

func respondStatusFor(err error) (int, string) {
  switch {
  case errors.Is(err, services.ErrUnknownToken):
    return http.StatusNotFound, "unknown_token"
  case errors.Is(err, scheduling.ErrAlreadyHandled):
    return http.StatusConflict, "already_handled"
  case errors.Is(err, scheduling.ErrInvalidSlot),
    errors.Is(err, scheduling.ErrSlotExpired),
    errors.Is(err, scheduling.ErrBadSlotCount),
    errors.Is(err, scheduling.ErrSlotNotFuture):
    return http.StatusUnprocessableEntity, "invalid_response"
  default:
    return http.StatusInternalServerError, "respond_failed"
  }
}

func (h *RespondHandler) Get(c *gin.Context) {
  interview, err := h.interviewService.GetByToken(c.Request.Context(), c.Param("token"))
  if err != nil {
    status, code := respondStatusFor(err)
    RespondError(c, status, code, err)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}

func (h *RespondHandler) Accept(c *gin.Context) {
  var req struct {
    SlotIndex int `json:"slot_index"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  interview, err := h.interviewService.Accept(c.Request.Context(), c.Param("token"), req.SlotIndex)
  if err != nil {
    status, code := respondStatusFor(err)
    RespondError(c, status, code, err)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}

func (h *RespondHandler) Counter(c *gin.Context) {
  var req struct {
    Slots   []time.Time `json:"slots"`
    Message string      `json:"message"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  interview, err := h.interviewService.Counter(c.Request.Context(), c.Param("token"), req.Slots, req.Message)
  if err != nil {
    status, code := respondStatusFor(err)
    RespondError(c, status, code, err)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}

func (h *RespondHandler) Decline(c *gin.Context) {
  var req struct {
    Reason string `json:"reason"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  interview, err := h.interviewService.Decline(c.Request.Context(), c.Param("token"), req.Reason)
  if err != nil {
    status, code := respondStatusFor(err)
    RespondError(c, status, code, err)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}
