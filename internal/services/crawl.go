package services

import (
  "context"
  "fmt"
  "net/http"
  "net/url"
  "strings"
  "time"
  "github.com/PuerkitoBio/goquery"
  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CrawlResult struct {
  PagesCrawled int `json:"pages_crawled"`
  PagesFailed  int `json:"pages_failed"`
  LeadsSeen    int `json:"leads_seen"`
}

type CrawlService interface {
  RegisterCareerPage(ctx context.Context, companyName, pageURL string) (*types.CareerPage, error)
  ListCareerPages(ctx context.Context) ([]*types.CareerPage, error)
  CrawlPage(ctx context.Context, pageID uuid.UUID) (int, error)
  // CrawlAll crawls every registered page with bounded concurrency.
  CrawlAll(ctx context.Context) (*CrawlResult, error)
  ListLeads(ctx context.Context, careerPageID uuid.UUID) ([]*types.Lead, error)
}

type crawlService struct {
  db             *gorm.DB
  log            *logger.Logger
  careerPageRepo repos.CareerPageRepo
  leadRepo       repos.LeadRepo
  notifier       Notifier
  httpClient     *http.Client
  concurrency    int
}

func NewCrawlService(
  db *gorm.DB,
  log *logger.Logger,
  careerPageRepo repos.CareerPageRepo,
  leadRepo repos.LeadRepo,
  notifier Notifier,
) CrawlService {
  return &crawlService{
    db:             db,
    log:            log.With("service", "CrawlService"),
    careerPageRepo: careerPageRepo,
    leadRepo:       leadRepo,
    notifier:       notifier,
    httpClient:     &http.Client{Timeout: 30 * time.Second},
    concurrency:    4,
  }
}

func (cws *crawlService) RegisterCareerPage(ctx context.Context, companyName, pageURL string) (*types.CareerPage, error) {
  companyName = strings.TrimSpace(companyName)
  pageURL = strings.TrimSpace(pageURL)
  if companyName == "" || pageURL == "" {
    return nil, fmt.Errorf("company name and url are required")
  }
  parsed, pErr := url.Parse(pageURL)
  if pErr != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
    return nil, fmt.Errorf("invalid career page url")
  }
  page := &types.CareerPage{
    ID:          uuid.New(),
    CompanyName: companyName,
    URL:         pageURL,
  }
  if _, err := cws.careerPageRepo.Create(ctx, nil, []*types.CareerPage{page}); err != nil {
    return nil, fmt.Errorf("Failed to register career page: %w", err)
  }
  return page, nil
}

func (cws *crawlService) ListCareerPages(ctx context.Context) ([]*types.CareerPage, error) {
  return cws.careerPageRepo.List(ctx, nil)
}

func (cws *crawlService) CrawlPage(ctx context.Context, pageID uuid.UUID) (int, error) {
  pages, err := cws.careerPageRepo.GetByIDs(ctx, nil, []uuid.UUID{pageID})
  if err != nil {
    return 0, fmt.Errorf("Failed to load career page: %w", err)
  }
  if len(pages) == 0 {
    return 0, fmt.Errorf("Career page not found")
  }
  return cws.crawlOne(ctx, pages[0])
}

func (cws *crawlService) crawlOne(ctx context.Context, page *types.CareerPage) (int, error) {
  now := time.Now()
  leads, err := cws.fetchLeads(ctx, page)
  if err != nil {
    _ = cws.careerPageRepo.UpdateFields(ctx, nil, page.ID, map[string]interface{}{
      "last_crawled_at": now,
      "last_status":     "failed",
      "last_error":      err.Error(),
      "updated_at":      now,
    })
    return 0, err
  }

  if uErr := cws.leadRepo.UpsertSeen(ctx, nil, leads); uErr != nil {
    return 0, fmt.Errorf("Failed to upsert leads: %w", uErr)
  }
  if uErr := cws.careerPageRepo.UpdateFields(ctx, nil, page.ID, map[string]interface{}{
    "last_crawled_at": now,
    "last_status":     "ok",
    "last_error":      "",
    "updated_at":      now,
  }); uErr != nil {
    return 0, fmt.Errorf("Failed to update career page: %w", uErr)
  }

  if len(leads) > 0 {
    cws.notifier.LeadDiscovered(ctx, map[string]any{
      "career_page_id": page.ID,
      "company_name":   page.CompanyName,
      "leads_seen":     len(leads),
    })
  }
  return len(leads), nil
}

// fetchLeads downloads the page and extracts job postings. Selector coverage
// is deliberately generic: anchors inside common job-listing containers, with
// a fallback to links whose path looks like a posting.
func (cws *crawlService) fetchLeads(ctx context.Context, page *types.CareerPage) ([]*types.Lead, error) {
  req, rErr := http.NewRequestWithContext(ctx, http.MethodGet, page.URL, nil)
  if rErr != nil {
    return nil, rErr
  }
  req.Header.Set("User-Agent", "talentbridge-crawler/1.0")

  resp, dErr := cws.httpClient.Do(req)
  if dErr != nil {
    return nil, fmt.Errorf("fetch %s: %w", page.URL, dErr)
  }
  defer resp.Body.Close()
  if resp.StatusCode != http.StatusOK {
    return nil, fmt.Errorf("fetch %s: http %d", page.URL, resp.StatusCode)
  }

  doc, gErr := goquery.NewDocumentFromReader(resp.Body)
  if gErr != nil {
    return nil, fmt.Errorf("parse %s: %w", page.URL, gErr)
  }

  base, bErr := url.Parse(page.URL)
  if bErr != nil {
    return nil, bErr
  }

  seen := map[string]bool{}
  var leads []*types.Lead
  collect := func(sel *goquery.Selection) {
    href, ok := sel.Attr("href")
    if !ok {
      return
    }
    title := strings.TrimSpace(sel.Text())
    if title == "" || len(title) > 200 {
      return
    }
    ref, pErr := url.Parse(strings.TrimSpace(href))
    if pErr != nil {
      return
    }
    absolute := base.ResolveReference(ref)
    if absolute.Scheme != "http" && absolute.Scheme != "https" {
      return
    }
    absolute.Fragment = ""
    link := absolute.String()
    if seen[link] || link == page.URL {
      return
    }
    seen[link] = true

    lead := &types.Lead{
      ID:           uuid.New(),
      CareerPageID: page.ID,
      Title:        title,
      URL:          link,
      FirstSeenAt:  time.Now(),
    }
    if loc := sel.Closest("li, article, tr, div").Find(".location, [class*=location]").First(); loc.Length() > 0 {
      lead.Location = strings.TrimSpace(loc.Text())
    }
    if dep := sel.Closest("li, article, tr, div").Find(".department, [class*=department]").First(); dep.Length() > 0 {
      lead.Department = strings.TrimSpace(dep.Text())
    }
    leads = append(leads, lead)
  }

  doc.Find(".job a, .jobs a, .position a, .vacancy a, [class*=job-listing] a, [class*=opening] a").Each(func(_ int, sel *goquery.Selection) {
    collect(sel)
  })
  if len(leads) == 0 {
    doc.Find("a[href*='/job'], a[href*='/jobs/'], a[href*='/careers/'], a[href*='/position']").Each(func(_ int, sel *goquery.Selection) {
      collect(sel)
    })
  }
  return leads, nil
}

func (cws *crawlService) CrawlAll(ctx context.Context) (*CrawlResult, error) {
  pages, err := cws.careerPageRepo.List(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to list career pages: %w", err)
  }
  result := &CrawlResult{}
  if len(pages) == 0 {
    return result, nil
  }

  g, gctx := errgroup.WithContext(ctx)
  g.SetLimit(cws.concurrency)
  counts := make([]int, len(pages))
  failed := make([]bool, len(pages))
  for i, page := range pages {
    i, page := i, page
    g.Go(func() error {
      n, cErr := cws.crawlOne(gctx, page)
      if cErr != nil {
        // One bad page must not abort the sweep.
        cws.log.Warn("Crawl failed", "career_page_id", page.ID, "url", page.URL, "error", cErr)
        failed[i] = true
        return nil
      }
      counts[i] = n
      return nil
    })
  }
  if wErr := g.Wait(); wErr != nil {
    return nil, wErr
  }

  for i := range pages {
    if failed[i] {
      result.PagesFailed++
      continue
    }
    result.PagesCrawled++
    result.LeadsSeen += counts[i]
  }
  cws.log.Info("Crawl sweep finished",
    "crawled", result.PagesCrawled,
    "failed", result.PagesFailed,
    "leads_seen", result.LeadsSeen,
  )
  return result, nil
}

func (cws *crawlService) ListLeads(ctx context.Context, careerPageID uuid.UUID) ([]*types.Lead, error) {
  if careerPageID == uuid.Nil {
    return cws.leadRepo.List(ctx, nil, 0, 0)
  }
  return cws.leadRepo.ListByCareerPage(ctx, nil, careerPageID)
}
