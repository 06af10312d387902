package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/talentbridge/talentbridge-backend/internal/matching"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type MatchingConfigHandler struct {
  configService services.MatchingConfigService
}

func NewMatchingConfigHandler(configService services.MatchingConfigService) *MatchingConfigHandler {
  return &MatchingConfigHandler{configService: configService}
}

func (h *MatchingConfigHandler) GetActive(c *gin.Context) {
  cfg, row, err := h.configService.ActiveConfig(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "load_config_failed", err)
    return
  }
  RespondOK(c, gin.H{"config": cfg, "version": row.Version, "updated_at": row.UpdatedAt})
}

// UpdateActive rejects configs whose weight groups do not sum to 1.
func (h *MatchingConfigHandler) UpdateActive(c *gin.Context) {
  var cfg matching.Config
  if err := c.ShouldBindJSON(&cfg); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  row, err := h.configService.UpdateActiveConfig(c.Request.Context(), cfg)
  if err != nil {
    RespondError(c, http.StatusUnprocessableEntity, "invalid_config", err)
    return
  }
  RespondOK(c, gin.H{"version": row.Version, "created_at": row.CreatedAt})
}

// NormalizeActive renormalizes a drifted active config into a new version.
func (h *MatchingConfigHandler) NormalizeActive(c *gin.Context) {
  row, err := h.configService.NormalizeActiveConfig(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusUnprocessableEntity, "normalize_failed", err)
    return
  }
  RespondOK(c, gin.H{"version": row.Version, "created_at": row.CreatedAt})
}

func (h *MatchingConfigHandler) ListVersions(c *gin.Context) {
  versions, err := h.configService.ListVersions(c.Request.Context(), c.Query("name"))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_versions_failed", err)
    return
  }
  RespondOK(c, gin.H{"versions": versions})
}
