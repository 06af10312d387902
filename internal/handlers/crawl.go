package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type CrawlHandler struct {
  log          *logger.Logger
  crawlService services.CrawlService
}

func NewCrawlHandler(log *logger.Logger, crawlService services.CrawlService) *CrawlHandler {
  return &CrawlHandler{
    log:          log.With("handler", "CrawlHandler"),
    crawlService: crawlService,
  }
}

func (h *CrawlHandler) RegisterPage(c *gin.Context) {
  var req struct {
    CompanyName string `json:"company_name"`
    URL         string `json:"url"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  page, rErr := h.crawlService.RegisterCareerPage(c.Request.Context(), req.CompanyName, req.URL)
  if rErr != nil {
    RespondError(c, http.StatusBadRequest, "register_page_failed", rErr)
    return
  }
  RespondOK(c, gin.H{"career_page": page})
}

func (h *CrawlHandler) ListPages(c *gin.Context) {
  pages, err := h.crawlService.ListCareerPages(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_pages_failed", err)
    return
  }
  RespondOK(c, gin.H{"career_pages": pages})
}

func (h *CrawlHandler) CrawlPage(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  leads, cErr := h.crawlService.CrawlPage(c.Request.Context(), pageID)
  if cErr != nil {
    h.log.Warn("Crawl failed", "career_page_id", pageID, "error", cErr)
    RespondError(c, http.StatusBadGateway, "crawl_failed", cErr)
    return
  }
  RespondOK(c, gin.H{"leads_seen": leads})
}

func (h *CrawlHandler) CrawlAll(c *gin.Context) {
  result, err := h.crawlService.CrawlAll(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "crawl_failed", err)
    return
  }
  RespondOK(c, gin.H{"result": result})
}

// ListLeads returns every lead, or one page's leads when career_page_id is
// set.
func (h *CrawlHandler) ListLeads(c *gin.Context) {
  pageID := uuid.Nil
  if raw := c.Query("career_page_id"); raw != "" {
    parsed, err := uuid.Parse(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
      return
    }
    pageID = parsed
  }
  leads, err := h.crawlService.ListLeads(c.Request.Context(), pageID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_leads_failed", err)
    return
  }
  RespondOK(c, gin.H{"leads": leads})
}
