package handlers

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type InterviewHandler struct {
  log              *logger.Logger
  interviewService services.InterviewService
}

func NewInterviewHandler(log *logger.Logger, interviewService services.InterviewService) *InterviewHandler {
  return &InterviewHandler{
    log:              log.With("handler", "InterviewHandler"),
    interviewService: interviewService,
  }
}

// SendInvitation creates the next round for a submission and emails the
// candidate a tokenized response link.
func (h *InterviewHandler) SendInvitation(c *gin.Context) {
  submissionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  var req struct {
    Slots           []time.Time `json:"slots"`
    DurationMinutes int         `json:"duration_minutes"`
    MeetingFormat   string      `json:"meeting_format"`
  }
  if bErr := c.ShouldBindJSON(&req); bErr != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", bErr)
    return
  }
  interview, iErr := h.interviewService.SendInvitation(c.Request.Context(), submissionID, req.Slots, req.DurationMinutes, req.MeetingFormat)
  if iErr != nil {
    RespondError(c, http.StatusUnprocessableEntity, "send_invitation_failed", iErr)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}

func (h *InterviewHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_interview_id", err)
    return
  }
  interview, iErr := h.interviewService.GetByID(c.Request.Context(), id)
  if iErr != nil {
    RespondError(c, http.StatusInternalServerError, "load_interview_failed", iErr)
    return
  }
  if interview == nil {
    RespondError(c, http.StatusNotFound, "interview_not_found", nil)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}

func (h *InterviewHandler) GetLatest(c *gin.Context) {
  submissionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  interview, iErr := h.interviewService.GetLatestBySubmission(c.Request.Context(), submissionID)
  if iErr != nil {
    RespondError(c, http.StatusInternalServerError, "load_interview_failed", iErr)
    return
  }
  if interview == nil {
    RespondError(c, http.StatusNotFound, "interview_not_found", nil)
    return
  }
  RespondOK(c, gin.H{"interview": interview})
}
