package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/requestdata"
  "github.com/talentbridge/talentbridge-backend/internal/sse"
)

type EventsHandler struct {
  log *logger.Logger
  hub *sse.SSEHub
}

func NewEventsHandler(log *logger.Logger, hub *sse.SSEHub) *EventsHandler {
  return &EventsHandler{
    log: log.With("handler", "EventsHandler"),
    hub: hub,
  }
}

// Stream opens the SSE connection. Every client gets its user channel;
// ?submission_id=... (repeatable) adds per-submission channels.
func (h *EventsHandler) Stream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  client := h.hub.NewSSEClient(rd.UserID)
  h.hub.AddChannel(client, sse.UserChannel(rd.UserID))
  for _, raw := range c.QueryArray("submission_id") {
    submissionID, err := uuid.Parse(raw)
    if err != nil {
      continue
    }
    h.hub.AddChannel(client, sse.SubmissionChannel(submissionID))
  }
  defer h.hub.CloseClient(client)

  h.hub.ServeHTTP(c.Writer, c.Request, client)
}
