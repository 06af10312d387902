package jobs

import (
	"fmt"

	"github.com/talentbridge/talentbridge-backend/internal/jobs/runtime"
	"github.com/talentbridge/talentbridge-backend/internal/services"
)

const (
	JobTypeInfluenceEngine = "influence_engine"
	JobTypeDealHealthBatch = "deal_health_batch"
	JobTypeCareerPageCrawl = "career_page_crawl"
	JobTypeClientSummary   = "client_summary"
)

type influenceEngineHandler struct {
	svc services.InfluenceService
}

func NewInfluenceEngineHandler(svc services.InfluenceService) runtime.Handler {
	return &influenceEngineHandler{svc: svc}
}

func (h *influenceEngineHandler) Type() string { return JobTypeInfluenceEngine }

func (h *influenceEngineHandler) Run(jc *runtime.Context) error {
	result, err := h.svc.RunOnce(jc.Ctx)
	if err != nil {
		return err
	}
	jc.Succeed(result)
	return nil
}

type dealHealthBatchHandler struct {
	svc services.DealHealthService
}

func NewDealHealthBatchHandler(svc services.DealHealthService) runtime.Handler {
	return &dealHealthBatchHandler{svc: svc}
}

func (h *dealHealthBatchHandler) Type() string { return JobTypeDealHealthBatch }

func (h *dealHealthBatchHandler) Run(jc *runtime.Context) error {
	updated, err := h.svc.RecomputeAll(jc.Ctx)
	if err != nil {
		return err
	}
	jc.Succeed(map[string]any{"updated": updated})
	return nil
}

type careerPageCrawlHandler struct {
	svc services.CrawlService
}

func NewCareerPageCrawlHandler(svc services.CrawlService) runtime.Handler {
	return &careerPageCrawlHandler{svc: svc}
}

func (h *careerPageCrawlHandler) Type() string { return JobTypeCareerPageCrawl }

// Run crawls a single page when the payload names one, otherwise sweeps every
// registered page.
func (h *careerPageCrawlHandler) Run(jc *runtime.Context) error {
	if pageID, ok := jc.PayloadUUID("career_page_id"); ok {
		leads, err := h.svc.CrawlPage(jc.Ctx, pageID)
		if err != nil {
			return err
		}
		jc.Succeed(map[string]any{"career_page_id": pageID, "leads_seen": leads})
		return nil
	}
	result, err := h.svc.CrawlAll(jc.Ctx)
	if err != nil {
		return err
	}
	jc.Succeed(result)
	return nil
}

type clientSummaryHandler struct {
	svc services.SummaryService
}

func NewClientSummaryHandler(svc services.SummaryService) runtime.Handler {
	return &clientSummaryHandler{svc: svc}
}

func (h *clientSummaryHandler) Type() string { return JobTypeClientSummary }

func (h *clientSummaryHandler) Run(jc *runtime.Context) error {
	submissionID, ok := jc.PayloadUUID("submission_id")
	if !ok {
		return fmt.Errorf("payload is missing submission_id")
	}
	jc.Heartbeat()
	summary, err := h.svc.GenerateClientSummary(jc.Ctx, submissionID)
	if err != nil {
		return err
	}
	jc.Succeed(map[string]any{"summary_id": summary.ID})
	return nil
}
