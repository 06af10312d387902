package handlers

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/clients/msgraph"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type CalendarHandler struct {
  log              *logger.Logger
  calendarService  services.CalendarService
  interviewService services.InterviewService
}

func NewCalendarHandler(log *logger.Logger, calendarService services.CalendarService, interviewService services.InterviewService) *CalendarHandler {
  return &CalendarHandler{
    log:              log.With("handler", "CalendarHandler"),
    calendarService:  calendarService,
    interviewService: interviewService,
  }
}

func (h *CalendarHandler) ConnectURL(c *gin.Context) {
  url, err := h.calendarService.ConnectURL(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusBadRequest, "connect_url_failed", err)
    return
  }
  RespondOK(c, gin.H{"url": url})
}

// Callback is hit by the provider redirect; state carries the user id that
// started the flow.
func (h *CalendarHandler) Callback(c *gin.Context) {
  code := c.Query("code")
  state := c.Query("state")
  if code == "" || state == "" {
    RespondError(c, http.StatusBadRequest, "invalid_callback", nil)
    return
  }
  userID, err := uuid.Parse(state)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_callback_state", err)
    return
  }
  conn, cErr := h.calendarService.CompleteConnect(c.Request.Context(), userID, code)
  if cErr != nil {
    h.log.Error("Calendar connect failed", "user_id", userID, "error", cErr)
    RespondError(c, http.StatusBadGateway, "calendar_connect_failed", cErr)
    return
  }
  RespondOK(c, gin.H{"connected": true, "account_email": conn.AccountEmail})
}

func (h *CalendarHandler) Disconnect(c *gin.Context) {
  if err := h.calendarService.Disconnect(c.Request.Context()); err != nil {
    RespondError(c, http.StatusBadRequest, "disconnect_failed", err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (h *CalendarHandler) GetConnection(c *gin.Context) {
  conn, err := h.calendarService.GetConnection(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "load_connection_failed", err)
    return
  }
  if conn == nil {
    RespondError(c, http.StatusNotFound, "no_calendar_connected", nil)
    return
  }
  // Tokens never leave the server.
  RespondOK(c, gin.H{"provider": conn.Provider, "account_email": conn.AccountEmail, "connected_at": conn.CreatedAt})
}

func (h *CalendarHandler) FreeBusy(c *gin.Context) {
  var req struct {
    Emails []string  `json:"emails"`
    Start  time.Time `json:"start"`
    End    time.Time `json:"end"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  items, fErr := h.calendarService.FreeBusy(c.Request.Context(), req.Emails, req.Start, req.End)
  if fErr != nil {
    RespondError(c, http.StatusBadGateway, "free_busy_failed", fErr)
    return
  }
  RespondOK(c, gin.H{"schedules": items})
}

// CreateEvent books the calendar event for a submission's latest interview,
// which must already be scheduled.
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
  var req struct {
    SubmissionID uuid.UUID `json:"submission_id"`
    Attendees    []string  `json:"attendees"`
    Subject      string    `json:"subject"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  interview, iErr := h.interviewService.GetLatestBySubmission(c.Request.Context(), req.SubmissionID)
  if iErr != nil {
    RespondError(c, http.StatusInternalServerError, "load_interview_failed", iErr)
    return
  }
  if interview == nil {
    RespondError(c, http.StatusNotFound, "interview_not_found", nil)
    return
  }
  event, eErr := h.calendarService.CreateInterviewEvent(c.Request.Context(), interview, req.Attendees, req.Subject)
  if eErr != nil {
    h.log.Error("CreateInterviewEvent failed", "submission_id", req.SubmissionID, "error", eErr)
    RespondError(c, http.StatusBadGateway, "create_event_failed", eErr)
    return
  }
  RespondOK(c, gin.H{"event": event})
}

func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
  eventID := c.Param("id")
  var req struct {
    Subject   string    `json:"subject"`
    Start     time.Time `json:"start"`
    End       time.Time `json:"end"`
    Attendees []string  `json:"attendees"`
    Location  string    `json:"location"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  event, uErr := h.calendarService.UpdateEvent(c.Request.Context(), eventID, msgraph.Event{
    Subject:   req.Subject,
    Start:     req.Start,
    End:       req.End,
    Attendees: req.Attendees,
    Location:  req.Location,
  })
  if uErr != nil {
    RespondError(c, http.StatusBadGateway, "update_event_failed", uErr)
    return
  }
  RespondOK(c, gin.H{"event": event})
}

func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
  if err := h.calendarService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
    RespondError(c, http.StatusBadGateway, "delete_event_failed", err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
