package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/clients/openai"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type SummaryService interface {
  // GenerateClientSummary produces the anonymized candidate brief shown to
  // the client for a submission and persists it.
  GenerateClientSummary(ctx context.Context, submissionID uuid.UUID) (*types.CandidateClientSummary, error)
  GetLatestForCandidate(ctx context.Context, candidateID uuid.UUID) (*types.CandidateClientSummary, error)
}

type summaryService struct {
  db             *gorm.DB
  log            *logger.Logger
  submissionRepo repos.SubmissionRepo
  candidateRepo  repos.CandidateRepo
  jobRepo        repos.JobRepo
  summaryRepo    repos.ClientSummaryRepo
  aiClient       openai.Client
  notifier       Notifier
}

func NewSummaryService(
  db *gorm.DB,
  log *logger.Logger,
  submissionRepo repos.SubmissionRepo,
  candidateRepo repos.CandidateRepo,
  jobRepo repos.JobRepo,
  summaryRepo repos.ClientSummaryRepo,
  aiClient openai.Client,
  notifier Notifier,
) SummaryService {
  return &summaryService{
    db:             db,
    log:            log.With("service", "SummaryService"),
    submissionRepo: submissionRepo,
    candidateRepo:  candidateRepo,
    jobRepo:        jobRepo,
    summaryRepo:    summaryRepo,
    aiClient:       aiClient,
    notifier:       notifier,
  }
}

var clientSummarySchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "summary":        map[string]any{"type": "string"},
    "strengths":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
    "seniority":      map[string]any{"type": "string"},
    "fit_assessment": map[string]any{"type": "string"},
  },
  "required":             []string{"summary", "strengths", "seniority", "fit_assessment"},
  "additionalProperties": false,
}

const clientSummarySystemPrompt = "You write short, factual candidate briefs for hiring clients. " +
  "Never include the candidate's name, email, phone number or current employer. " +
  "Base every statement on the provided profile; do not invent qualifications."

func (cs *summaryService) GenerateClientSummary(ctx context.Context, submissionID uuid.UUID) (*types.CandidateClientSummary, error) {
  if cs.aiClient == nil {
    return nil, fmt.Errorf("summary generation is not configured")
  }

  submissions, sErr := cs.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submissionID})
  if sErr != nil {
    return nil, fmt.Errorf("Failed to load submission: %w", sErr)
  }
  if len(submissions) == 0 {
    return nil, fmt.Errorf("Submission not found")
  }
  submission := submissions[0]

  candidates, cErr := cs.candidateRepo.GetByIDs(ctx, nil, []uuid.UUID{submission.CandidateID})
  if cErr != nil {
    return nil, fmt.Errorf("Failed to load candidate: %w", cErr)
  }
  if len(candidates) == 0 {
    return nil, fmt.Errorf("Candidate not found")
  }
  candidate := candidates[0]

  jobs, jErr := cs.jobRepo.GetByIDs(ctx, nil, []uuid.UUID{submission.JobID})
  if jErr != nil {
    return nil, fmt.Errorf("Failed to load job: %w", jErr)
  }
  if len(jobs) == 0 {
    return nil, fmt.Errorf("Job not found")
  }
  job := jobs[0]

  prompt := buildSummaryPrompt(candidate, job)
  raw, aiErr := cs.aiClient.GenerateJSON(ctx, clientSummarySystemPrompt, prompt, "client_summary", clientSummarySchema)
  if aiErr != nil {
    return nil, fmt.Errorf("Failed to generate summary: %w", aiErr)
  }

  summaryText, _ := raw["summary"].(string)
  if strings.TrimSpace(summaryText) == "" {
    return nil, fmt.Errorf("model returned an empty summary")
  }
  seniority, _ := raw["seniority"].(string)
  fitAssessment, _ := raw["fit_assessment"].(string)
  var strengths []string
  if items, ok := raw["strengths"].([]any); ok {
    for _, item := range items {
      if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
        strengths = append(strengths, s)
      }
    }
  }

  row := &types.CandidateClientSummary{
    ID:            uuid.New(),
    CandidateID:   candidate.ID,
    SubmissionID:  &submission.ID,
    Summary:       summaryText,
    Strengths:     encodeStringList(strengths),
    Seniority:     seniority,
    FitAssessment: fitAssessment,
    Model:         cs.aiClient.Model(),
  }
  if _, pErr := cs.summaryRepo.Create(ctx, nil, []*types.CandidateClientSummary{row}); pErr != nil {
    return nil, fmt.Errorf("Failed to persist summary: %w", pErr)
  }

  cs.notifier.SummaryGenerated(ctx, submission.ID, map[string]any{
    "summary_id":   row.ID,
    "candidate_id": candidate.ID,
  })
  return row, nil
}

// buildSummaryPrompt serializes the profile without identifying fields; the
// anonymization happens here, not in the model.
func buildSummaryPrompt(candidate *types.Candidate, job *types.Job) string {
  profile := map[string]any{
    "experience_years":  candidate.ExperienceYears,
    "skills":            decodeStringList(candidate.Skills),
    "industries":        decodeStringList(candidate.Industries),
    "languages":         decodeStringList(candidate.Languages),
    "licenses":          decodeStringList(candidate.Licenses),
    "remote_preference": candidate.RemotePreference,
    "city":              candidate.City,
  }
  role := map[string]any{
    "title":                job.Title,
    "must_have_skills":     decodeStringList(job.MustHaveSkills),
    "nice_to_have_skills":  decodeStringList(job.NiceToHaveSkills),
    "industries":           decodeStringList(job.Industries),
    "min_experience_years": job.MinExperienceYears,
    "remote_policy":        job.RemotePolicy,
  }
  payload, _ := json.MarshalIndent(map[string]any{"candidate": profile, "role": role}, "", "  ")
  return fmt.Sprintf("Write a client-facing brief for this candidate and role as of %s:\n%s",
    time.Now().Format("2006-01-02"), string(payload))
}

func (cs *summaryService) GetLatestForCandidate(ctx context.Context, candidateID uuid.UUID) (*types.CandidateClientSummary, error) {
  return cs.summaryRepo.GetLatestByCandidate(ctx, nil, candidateID)
}
