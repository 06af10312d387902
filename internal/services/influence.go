package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/influence"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/scheduling"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type InfluenceRunResult struct {
  SubmissionsScanned int `json:"submissions_scanned"`
  AlertsCreated      int `json:"alerts_created"`
  AlertsSuppressed   int `json:"alerts_suppressed"`
}

type InfluenceService interface {
  // RunOnce scans every active submission, refreshes behavior scores and
  // inserts the alerts whose rules fired. Safe to run concurrently: the
  // partial unique index suppresses duplicate open alerts.
  RunOnce(ctx context.Context) (*InfluenceRunResult, error)
  RecordEngagement(ctx context.Context, submissionID uuid.UUID, kind string) error
  ListOpenAlerts(ctx context.Context, limit, offset int) ([]*types.InfluenceAlert, error)
  DismissAlert(ctx context.Context, alertID uuid.UUID) error
}

type influenceService struct {
  db             *gorm.DB
  log            *logger.Logger
  submissionRepo repos.SubmissionRepo
  behaviorRepo   repos.CandidateBehaviorRepo
  interviewRepo  repos.InterviewRepo
  alertRepo      repos.InfluenceAlertRepo
  notifier       Notifier
}

func NewInfluenceService(
  db *gorm.DB,
  log *logger.Logger,
  submissionRepo repos.SubmissionRepo,
  behaviorRepo repos.CandidateBehaviorRepo,
  interviewRepo repos.InterviewRepo,
  alertRepo repos.InfluenceAlertRepo,
  notifier Notifier,
) InfluenceService {
  return &influenceService{
    db:             db,
    log:            log.With("service", "InfluenceService"),
    submissionRepo: submissionRepo,
    behaviorRepo:   behaviorRepo,
    interviewRepo:  interviewRepo,
    alertRepo:      alertRepo,
    notifier:       notifier,
  }
}

func (fs *influenceService) RunOnce(ctx context.Context) (*InfluenceRunResult, error) {
  submissions, sErr := fs.submissionRepo.ListActive(ctx, nil)
  if sErr != nil {
    return nil, fmt.Errorf("Failed to list active submissions: %w", sErr)
  }
  result := &InfluenceRunResult{SubmissionsScanned: len(submissions)}
  if len(submissions) == 0 {
    return result, nil
  }

  ids := make([]uuid.UUID, 0, len(submissions))
  for _, s := range submissions {
    ids = append(ids, s.ID)
  }
  behaviors, bErr := fs.behaviorRepo.GetBySubmissionIDs(ctx, nil, ids)
  if bErr != nil {
    return nil, fmt.Errorf("Failed to load behaviors: %w", bErr)
  }
  behaviorBySubmission := make(map[uuid.UUID]*types.CandidateBehavior, len(behaviors))
  for _, b := range behaviors {
    behaviorBySubmission[b.SubmissionID] = b
  }

  now := time.Now()
  for _, submission := range submissions {
    behavior := behaviorBySubmission[submission.ID]
    scores := fs.refreshBehavior(ctx, submission, behavior, now)

    latest, iErr := fs.interviewRepo.GetLatestBySubmission(ctx, nil, submission.ID)
    if iErr != nil {
      fs.log.Warn("Failed to load latest interview", "submission_id", submission.ID, "error", iErr)
      continue
    }

    signals := buildSignals(submission, behavior, latest, scores)
    for _, alert := range influence.Evaluate(signals, now) {
      row := &types.InfluenceAlert{
        ID:                uuid.New(),
        SubmissionID:      submission.ID,
        AlertType:         alert.Type,
        Priority:          string(alert.Priority),
        Title:             alert.Title,
        Message:           alert.Message,
        RecommendedAction: alert.RecommendedAction,
        ExpiresAt:         alert.ExpiresAt,
      }
      inserted, aErr := fs.alertRepo.InsertIfAbsent(ctx, nil, row)
      if aErr != nil {
        fs.log.Warn("Failed to insert alert", "submission_id", submission.ID, "alert_type", alert.Type, "error", aErr)
        continue
      }
      if inserted {
        result.AlertsCreated++
        fs.notifier.InfluenceAlertCreated(ctx, submission.ID, map[string]any{
          "alert_id":   row.ID,
          "alert_type": row.AlertType,
          "priority":   row.Priority,
        })
      } else {
        result.AlertsSuppressed++
      }
    }
  }

  fs.log.Info("Influence run finished",
    "scanned", result.SubmissionsScanned,
    "created", result.AlertsCreated,
    "suppressed", result.AlertsSuppressed,
  )
  return result, nil
}

func (fs *influenceService) refreshBehavior(ctx context.Context, submission *types.Submission, behavior *types.CandidateBehavior, now time.Time) influence.BehaviorScores {
  engagement := influence.Engagement{Stage: submission.Stage}
  if behavior != nil {
    engagement.EmailsSent = behavior.EmailsSent
    engagement.EmailsOpened = behavior.EmailsOpened
    engagement.LinksClicked = behavior.LinksClicked
    engagement.LastActivityAt = behavior.LastActivityAt
  }
  scores := influence.ScoreBehavior(engagement, now)

  row := &types.CandidateBehavior{
    ID:                      uuid.New(),
    SubmissionID:            submission.ID,
    ConfidenceScore:         scores.ConfidenceScore,
    InterviewReadinessScore: scores.InterviewReadinessScore,
    ClosingProbability:      scores.ClosingProbability,
    HesitationSignals:       encodeStringList(scores.HesitationSignals),
    MotivationIndicators:    encodeStringList(scores.MotivationIndicators),
  }
  if behavior != nil {
    row.ID = behavior.ID
    row.EmailsSent = behavior.EmailsSent
    row.EmailsOpened = behavior.EmailsOpened
    row.LinksClicked = behavior.LinksClicked
    row.LastActivityAt = behavior.LastActivityAt
  }
  if err := fs.behaviorRepo.Upsert(ctx, nil, row); err != nil {
    fs.log.Warn("Failed to upsert behavior scores", "submission_id", submission.ID, "error", err)
  }
  return scores
}

func buildSignals(submission *types.Submission, behavior *types.CandidateBehavior, latest *types.Interview, scores influence.BehaviorScores) influence.Signals {
  signals := influence.Signals{
    Stage:              submission.Stage,
    ConsentGiven:       submission.ConsentGiven,
    SubmittedAt:        submission.SubmittedAt,
    ClosingProbability: scores.ClosingProbability,
  }

  if latest != nil {
    switch latest.Status {
    case types.InterviewScheduled:
      signals.NextInterviewAt = latest.ScheduledAt
      signals.InterviewConfirmed = true
    case types.InterviewPendingResponse:
      // The earliest proposed slot is the interview the candidate has not
      // confirmed yet.
      var slots []scheduling.Slot
      if err := json.Unmarshal(latest.ProposedSlots, &slots); err == nil && len(slots) > 0 {
        earliest := slots[0].StartAt
        for _, s := range slots[1:] {
          if s.StartAt.Before(earliest) {
            earliest = s.StartAt
          }
        }
        signals.NextInterviewAt = &earliest
      }
    }
  }

  if behavior != nil {
    signals.PrepSignalsPresent = behavior.LinksClicked > 0
    signals.LastEngagementAt = behavior.LastActivityAt
  }

  if submission.Candidate != nil && submission.Job != nil &&
    submission.Candidate.ExpectedSalary != nil && submission.Job.SalaryMax != nil &&
    *submission.Job.SalaryMax > 0 && *submission.Candidate.ExpectedSalary > *submission.Job.SalaryMax {
    gap := (*submission.Candidate.ExpectedSalary - *submission.Job.SalaryMax) / *submission.Job.SalaryMax * 100
    signals.SalaryGapPercent = &gap
  }
  return signals
}

func (fs *influenceService) RecordEngagement(ctx context.Context, submissionID uuid.UUID, kind string) error {
  now := time.Now()
  updates := map[string]interface{}{
    "last_activity_at": now,
    "updated_at":       now,
  }
  switch kind {
  case "email_sent":
    updates["emails_sent"] = gorm.Expr("emails_sent + 1")
  case "email_opened":
    updates["emails_opened"] = gorm.Expr("emails_opened + 1")
  case "link_clicked":
    updates["links_clicked"] = gorm.Expr("links_clicked + 1")
  default:
    return fmt.Errorf("unknown engagement kind %q", kind)
  }
  return fs.behaviorRepo.RecordEngagement(ctx, nil, submissionID, updates)
}

func (fs *influenceService) ListOpenAlerts(ctx context.Context, limit, offset int) ([]*types.InfluenceAlert, error) {
  return fs.alertRepo.ListOpen(ctx, nil, limit, offset)
}

func (fs *influenceService) DismissAlert(ctx context.Context, alertID uuid.UUID) error {
  ok, err := fs.alertRepo.Dismiss(ctx, nil, alertID)
  if err != nil {
    return fmt.Errorf("Failed to dismiss alert: %w", err)
  }
  if !ok {
    return fmt.Errorf("Alert not found or already dismissed")
  }
  return nil
}
