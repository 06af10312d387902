package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type JobHandler struct {
  log        *logger.Logger
  jobService services.JobService
}

func NewJobHandler(log *logger.Logger, jobService services.JobService) *JobHandler {
  return &JobHandler{
    log:        log.With("handler", "JobHandler"),
    jobService: jobService,
  }
}

func (h *JobHandler) Create(c *gin.Context) {
  var job types.Job
  if err := c.ShouldBindJSON(&job); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  created, err := h.jobService.CreateJob(c.Request.Context(), &job)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_job_failed", err)
    return
  }
  RespondOK(c, gin.H{"job": created})
}

func (h *JobHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
    return
  }
  job, err := h.jobService.GetJob(c.Request.Context(), id)
  if err != nil {
    RespondError(c, http.StatusNotFound, "job_not_found", err)
    return
  }
  RespondOK(c, gin.H{"job": job})
}

func (h *JobHandler) List(c *gin.Context) {
  limit, offset := paginationParams(c)
  jobs, err := h.jobService.ListJobs(c.Request.Context(), c.Query("status"), limit, offset)
  if err != nil {
    h.log.Error("ListJobs failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "list_jobs_failed", err)
    return
  }
  RespondOK(c, gin.H{"jobs": jobs})
}

func (h *JobHandler) Update(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
    return
  }
  var updates map[string]interface{}
  if bErr := c.ShouldBindJSON(&updates); bErr != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", bErr)
    return
  }
  job, uErr := h.jobService.UpdateJob(c.Request.Context(), id, updates)
  if uErr != nil {
    RespondError(c, http.StatusBadRequest, "update_job_failed", uErr)
    return
  }
  RespondOK(c, gin.H{"job": job})
}

func (h *JobHandler) Close(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
    return
  }
  if cErr := h.jobService.CloseJob(c.Request.Context(), id); cErr != nil {
    RespondError(c, http.StatusBadRequest, "close_job_failed", cErr)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
