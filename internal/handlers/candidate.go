package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CandidateHandler struct {
  log              *logger.Logger
  candidateService services.CandidateService
}

func NewCandidateHandler(log *logger.Logger, candidateService services.CandidateService) *CandidateHandler {
  return &CandidateHandler{
    log:              log.With("handler", "CandidateHandler"),
    candidateService: candidateService,
  }
}

func (h *CandidateHandler) Create(c *gin.Context) {
  var candidate types.Candidate
  if err := c.ShouldBindJSON(&candidate); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  created, err := h.candidateService.CreateCandidate(c.Request.Context(), &candidate)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_candidate_failed", err)
    return
  }
  RespondOK(c, gin.H{"candidate": created})
}

func (h *CandidateHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_candidate_id", err)
    return
  }
  candidate, err := h.candidateService.GetCandidate(c.Request.Context(), id)
  if err != nil {
    RespondError(c, http.StatusNotFound, "candidate_not_found", err)
    return
  }
  RespondOK(c, gin.H{"candidate": candidate})
}

func (h *CandidateHandler) List(c *gin.Context) {
  limit, offset := paginationParams(c)
  candidates, err := h.candidateService.ListCandidates(c.Request.Context(), limit, offset)
  if err != nil {
    h.log.Error("ListCandidates failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "list_candidates_failed", err)
    return
  }
  RespondOK(c, gin.H{"candidates": candidates})
}

func (h *CandidateHandler) Update(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_candidate_id", err)
    return
  }
  var updates map[string]interface{}
  if bErr := c.ShouldBindJSON(&updates); bErr != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", bErr)
    return
  }
  candidate, uErr := h.candidateService.UpdateCandidate(c.Request.Context(), id, updates)
  if uErr != nil {
    RespondError(c, http.StatusBadRequest, "update_candidate_failed", uErr)
    return
  }
  RespondOK(c, gin.H{"candidate": candidate})
}

func (h *CandidateHandler) RecordConsent(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_candidate_id", err)
    return
  }
  if cErr := h.candidateService.RecordConsent(c.Request.Context(), id); cErr != nil {
    RespondError(c, http.StatusBadRequest, "record_consent_failed", cErr)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func paginationParams(c *gin.Context) (int, int) {
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
  offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
  if limit < 0 {
    limit = 0
  }
  if offset < 0 {
    offset = 0
  }
  return limit, offset
}
