package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type SubmissionHandler struct {
  log               *logger.Logger
  submissionService services.SubmissionService
}

func NewSubmissionHandler(log *logger.Logger, submissionService services.SubmissionService) *SubmissionHandler {
  return &SubmissionHandler{
    log:               log.With("handler", "SubmissionHandler"),
    submissionService: submissionService,
  }
}

func (h *SubmissionHandler) Create(c *gin.Context) {
  var req struct {
    CandidateID  uuid.UUID `json:"candidate_id"`
    JobID        uuid.UUID `json:"job_id"`
    ConsentGiven bool      `json:"consent_given"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  submission, match, err := h.submissionService.CreateSubmission(c.Request.Context(), req.CandidateID, req.JobID, req.ConsentGiven)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_submission_failed", err)
    return
  }
  RespondOK(c, gin.H{"submission": submission, "match": match})
}

// PreviewMatch scores a candidate/job pair without creating anything.
func (h *SubmissionHandler) PreviewMatch(c *gin.Context) {
  var req struct {
    CandidateID uuid.UUID `json:"candidate_id"`
    JobID       uuid.UUID `json:"job_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  match, err := h.submissionService.PreviewMatch(c.Request.Context(), req.CandidateID, req.JobID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "preview_match_failed", err)
    return
  }
  RespondOK(c, gin.H{"match": match})
}

func (h *SubmissionHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  submission, err := h.submissionService.GetSubmission(c.Request.Context(), id)
  if err != nil {
    RespondError(c, http.StatusNotFound, "submission_not_found", err)
    return
  }
  RespondOK(c, gin.H{"submission": submission})
}

func (h *SubmissionHandler) List(c *gin.Context) {
  limit, offset := paginationParams(c)
  submissions, err := h.submissionService.ListSubmissions(c.Request.Context(), c.Query("stage"), limit, offset)
  if err != nil {
    h.log.Error("ListSubmissions failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "list_submissions_failed", err)
    return
  }
  RespondOK(c, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) AdvanceStage(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  var req struct {
    ToStage string `json:"to_stage"`
  }
  if bErr := c.ShouldBindJSON(&req); bErr != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", bErr)
    return
  }
  submission, aErr := h.submissionService.AdvanceStage(c.Request.Context(), id, req.ToStage)
  if aErr != nil {
    RespondError(c, http.StatusConflict, "advance_stage_failed", aErr)
    return
  }
  RespondOK(c, gin.H{"submission": submission})
}

func (h *SubmissionHandler) RecordConsent(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
    return
  }
  if cErr := h.submissionService.RecordConsent(c.Request.Context(), id); cErr != nil {
    RespondError(c, http.StatusBadRequest, "record_consent_failed", cErr)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
