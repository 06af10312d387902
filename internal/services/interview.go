package services

import (
  "context"
  "crypto/rand"
  "encoding/hex"
  "encoding/json"
  "errors"
  "fmt"
  "os"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/clients/sendgrid"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/scheduling"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

var ErrUnknownToken = errors.New("unknown or expired response token")

type InterviewService interface {
  // SendInvitation creates the next interview round for a submission and
  // emails the candidate a tokenized response link.
  SendInvitation(ctx context.Context, submissionID uuid.UUID, slots []time.Time, durationMinutes int, meetingFormat string) (*types.Interview, error)
  GetByID(ctx context.Context, id uuid.UUID) (*types.Interview, error)
  GetByToken(ctx context.Context, token string) (*types.Interview, error)
  Accept(ctx context.Context, token string, slotIndex int) (*types.Interview, error)
  Counter(ctx context.Context, token string, proposed []time.Time, message string) (*types.Interview, error)
  Decline(ctx context.Context, token string, reason string) (*types.Interview, error)
  GetLatestBySubmission(ctx context.Context, submissionID uuid.UUID) (*types.Interview, error)
}

type interviewService struct {
  db             *gorm.DB
  log            *logger.Logger
  interviewRepo  repos.InterviewRepo
  submissionRepo repos.SubmissionRepo
  candidateRepo  repos.CandidateRepo
  behaviorRepo   repos.CandidateBehaviorRepo
  mailClient     sendgrid.Client
  notifier       Notifier
  publicBaseURL  string
}

func NewInterviewService(
  db *gorm.DB,
  log *logger.Logger,
  interviewRepo repos.InterviewRepo,
  submissionRepo repos.SubmissionRepo,
  candidateRepo repos.CandidateRepo,
  behaviorRepo repos.CandidateBehaviorRepo,
  mailClient sendgrid.Client,
  notifier Notifier,
) InterviewService {
  baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")
  if baseURL == "" {
    baseURL = "http://localhost:8080"
  }
  return &interviewService{
    db:             db,
    log:            log.With("service", "InterviewService"),
    interviewRepo:  interviewRepo,
    submissionRepo: submissionRepo,
    candidateRepo:  candidateRepo,
    behaviorRepo:   behaviorRepo,
    mailClient:     mailClient,
    notifier:       notifier,
    publicBaseURL:  baseURL,
  }
}

func newResponseToken() (string, error) {
  buf := make([]byte, 32)
  if _, err := rand.Read(buf); err != nil {
    return "", fmt.Errorf("generate response token: %w", err)
  }
  return hex.EncodeToString(buf), nil
}

func (is *interviewService) SendInvitation(ctx context.Context, submissionID uuid.UUID, slots []time.Time, durationMinutes int, meetingFormat string) (*types.Interview, error) {
  now := time.Now()
  // Counter applies the same 1..3 future-slot rules an invitation needs.
  validated, vErr := scheduling.Counter(scheduling.StatusPendingResponse, slots, now)
  if vErr != nil {
    return nil, vErr
  }

  submissions, sErr := is.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submissionID})
  if sErr != nil {
    return nil, fmt.Errorf("Failed to load submission: %w", sErr)
  }
  if len(submissions) == 0 {
    return nil, fmt.Errorf("Submission not found")
  }
  submission := submissions[0]
  if types.IsTerminalStage(submission.Stage) {
    return nil, fmt.Errorf("submission is in terminal stage %q", submission.Stage)
  }

  candidates, cErr := is.candidateRepo.GetByIDs(ctx, nil, []uuid.UUID{submission.CandidateID})
  if cErr != nil {
    return nil, fmt.Errorf("Failed to load candidate: %w", cErr)
  }
  if len(candidates) == 0 {
    return nil, fmt.Errorf("Candidate not found")
  }
  candidate := candidates[0]

  round := 1
  latest, lErr := is.interviewRepo.GetLatestBySubmission(ctx, nil, submissionID)
  if lErr != nil {
    return nil, fmt.Errorf("Failed to load latest interview: %w", lErr)
  }
  if latest != nil {
    if latest.Status == types.InterviewPendingResponse {
      return nil, fmt.Errorf("previous invitation for this submission is still pending")
    }
    round = latest.Round + 1
  }

  token, tErr := newResponseToken()
  if tErr != nil {
    return nil, tErr
  }
  slotsJSON, mErr := json.Marshal(validated)
  if mErr != nil {
    return nil, fmt.Errorf("encode proposed slots: %w", mErr)
  }
  if durationMinutes <= 0 {
    durationMinutes = 60
  }
  if meetingFormat == "" {
    meetingFormat = "video"
  }

  interview := &types.Interview{
    ID:              uuid.New(),
    SubmissionID:    submissionID,
    Round:           round,
    ProposedSlots:   datatypes.JSON(slotsJSON),
    DurationMinutes: durationMinutes,
    MeetingFormat:   meetingFormat,
    Status:          types.InterviewPendingResponse,
    ResponseToken:   token,
  }

  err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := is.interviewRepo.Create(ctx, tx, []*types.Interview{interview}); cErr != nil {
      return fmt.Errorf("Failed to create interview: %w", cErr)
    }
    if bErr := is.behaviorRepo.RecordEngagement(ctx, tx, submissionID, map[string]interface{}{
      "emails_sent": gorm.Expr("emails_sent + 1"),
      "updated_at":  time.Now(),
    }); bErr != nil {
      return fmt.Errorf("Failed to record invitation engagement: %w", bErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  if mailErr := is.sendInvitationMail(ctx, candidate, interview, validated); mailErr != nil {
    // The invitation row exists and the link still works; a mail failure is
    // recoverable by resending.
    is.log.Warn("Failed to send invitation mail", "interview_id", interview.ID, "error", mailErr)
  }

  is.notifier.InterviewScheduled(ctx, submissionID, map[string]any{
    "interview_id": interview.ID,
    "round":        round,
    "status":       interview.Status,
  })
  return interview, nil
}

func (is *interviewService) sendInvitationMail(ctx context.Context, candidate *types.Candidate, interview *types.Interview, slots []scheduling.Slot) error {
  if is.mailClient == nil {
    return nil
  }
  respondURL := fmt.Sprintf("%s/respond/%s", is.publicBaseURL, interview.ResponseToken)
  var b strings.Builder
  fmt.Fprintf(&b, "Hi %s,\n\nWe would like to schedule your interview (round %d). Proposed times:\n\n", candidate.FirstName, interview.Round)
  for i, slot := range slots {
    fmt.Fprintf(&b, "  %d. %s\n", i+1, slot.StartAt.Format("Mon, 02 Jan 2006 15:04 MST"))
  }
  fmt.Fprintf(&b, "\nPick a slot, propose other times, or decline here:\n%s\n", respondURL)

  _, err := is.mailClient.Send(ctx, sendgrid.SendEmailRequest{
    To:         []sendgrid.EmailAddress{{Email: candidate.Email, Name: candidate.FirstName + " " + candidate.LastName}},
    Subject:    fmt.Sprintf("Interview invitation - round %d", interview.Round),
    Text:       b.String(),
    Categories: []string{"interview_invitation"},
  })
  return err
}

func (is *interviewService) GetByID(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
  interviews, err := is.interviewRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load interview: %w", err)
  }
  if len(interviews) == 0 {
    return nil, nil
  }
  return interviews[0], nil
}

func (is *interviewService) GetByToken(ctx context.Context, token string) (*types.Interview, error) {
  interview, err := is.interviewRepo.GetByResponseToken(ctx, nil, token)
  if err != nil {
    return nil, fmt.Errorf("Failed to load interview: %w", err)
  }
  if interview == nil {
    return nil, ErrUnknownToken
  }
  return interview, nil
}

func (is *interviewService) GetLatestBySubmission(ctx context.Context, submissionID uuid.UUID) (*types.Interview, error) {
  return is.interviewRepo.GetLatestBySubmission(ctx, nil, submissionID)
}

func (is *interviewService) proposedSlots(interview *types.Interview) ([]scheduling.Slot, error) {
  var slots []scheduling.Slot
  if err := json.Unmarshal(interview.ProposedSlots, &slots); err != nil {
    return nil, fmt.Errorf("decode proposed slots: %w", err)
  }
  return slots, nil
}

// Accept schedules the selected slot. The status transition is a
// compare-and-swap on pending_response, and the submission stage advance
// happens in the same transaction, so a double-submitted accept can neither
// schedule twice nor advance the pipeline twice.
func (is *interviewService) Accept(ctx context.Context, token string, slotIndex int) (*types.Interview, error) {
  interview, err := is.GetByToken(ctx, token)
  if err != nil {
    return nil, err
  }
  slots, sErr := is.proposedSlots(interview)
  if sErr != nil {
    return nil, sErr
  }
  now := time.Now()
  scheduledAt, aErr := scheduling.Accept(interview.Status, slots, slotIndex, now)
  if aErr != nil {
    return nil, aErr
  }

  err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ok, tErr := is.interviewRepo.TransitionFromPending(ctx, tx, interview.ID, map[string]interface{}{
      "status":       types.InterviewScheduled,
      "scheduled_at": scheduledAt,
      "consumed_at":  now,
      "updated_at":   now,
    })
    if tErr != nil {
      return tErr
    }
    if !ok {
      return scheduling.ErrAlreadyHandled
    }

    targetStage := stageForRound(interview.Round)
    submissions, gErr := is.submissionRepo.GetByIDs(ctx, tx, []uuid.UUID{interview.SubmissionID})
    if gErr != nil {
      return fmt.Errorf("Failed to load submission: %w", gErr)
    }
    if len(submissions) == 1 && targetStage != "" &&
      types.StageIndex(submissions[0].Stage) < types.StageIndex(targetStage) {
      if uErr := is.submissionRepo.UpdateFields(ctx, tx, interview.SubmissionID, map[string]interface{}{
        "stage":            targetStage,
        "stage_entered_at": now,
        "updated_at":       now,
      }); uErr != nil {
        return fmt.Errorf("Failed to advance submission stage: %w", uErr)
      }
    }
    if bErr := is.behaviorRepo.RecordEngagement(ctx, tx, interview.SubmissionID, map[string]interface{}{
      "last_activity_at": now,
      "updated_at":       now,
    }); bErr != nil {
      return fmt.Errorf("Failed to record response engagement: %w", bErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  interview.Status = types.InterviewScheduled
  interview.ScheduledAt = &scheduledAt
  interview.ConsumedAt = &now

  is.notifier.InterviewResponded(ctx, interview.SubmissionID, map[string]any{
    "interview_id": interview.ID,
    "status":       interview.Status,
    "scheduled_at": scheduledAt,
  })
  return interview, nil
}

// Counter records the candidate's proposed times and ends the round. The
// recruiter reviews them and sends a fresh invitation; the token is spent.
func (is *interviewService) Counter(ctx context.Context, token string, proposed []time.Time, message string) (*types.Interview, error) {
  interview, err := is.GetByToken(ctx, token)
  if err != nil {
    return nil, err
  }
  now := time.Now()
  counterSlots, cErr := scheduling.Counter(interview.Status, proposed, now)
  if cErr != nil {
    return nil, cErr
  }
  counterJSON, mErr := json.Marshal(counterSlots)
  if mErr != nil {
    return nil, fmt.Errorf("encode counter slots: %w", mErr)
  }

  err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ok, tErr := is.interviewRepo.TransitionFromPending(ctx, tx, interview.ID, map[string]interface{}{
      "status":          types.InterviewCounterProposed,
      "counter_slots":   datatypes.JSON(counterJSON),
      "counter_message": strings.TrimSpace(message),
      "consumed_at":     now,
      "updated_at":      now,
    })
    if tErr != nil {
      return tErr
    }
    if !ok {
      return scheduling.ErrAlreadyHandled
    }
    return is.behaviorRepo.RecordEngagement(ctx, tx, interview.SubmissionID, map[string]interface{}{
      "last_activity_at": now,
      "updated_at":       now,
    })
  })
  if err != nil {
    return nil, err
  }

  interview.Status = types.InterviewCounterProposed
  interview.CounterSlots = datatypes.JSON(counterJSON)
  interview.CounterMessage = strings.TrimSpace(message)
  interview.ConsumedAt = &now

  is.notifier.InterviewResponded(ctx, interview.SubmissionID, map[string]any{
    "interview_id": interview.ID,
    "status":       interview.Status,
  })
  return interview, nil
}

func (is *interviewService) Decline(ctx context.Context, token string, reason string) (*types.Interview, error) {
  interview, err := is.GetByToken(ctx, token)
  if err != nil {
    return nil, err
  }
  if dErr := scheduling.Decline(interview.Status); dErr != nil {
    return nil, dErr
  }
  now := time.Now()

  err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ok, tErr := is.interviewRepo.TransitionFromPending(ctx, tx, interview.ID, map[string]interface{}{
      "status":         types.InterviewDeclined,
      "decline_reason": strings.TrimSpace(reason),
      "consumed_at":    now,
      "updated_at":     now,
    })
    if tErr != nil {
      return tErr
    }
    if !ok {
      return scheduling.ErrAlreadyHandled
    }
    return is.behaviorRepo.RecordEngagement(ctx, tx, interview.SubmissionID, map[string]interface{}{
      "last_activity_at": now,
      "updated_at":       now,
    })
  })
  if err != nil {
    return nil, err
  }

  interview.Status = types.InterviewDeclined
  interview.DeclineReason = strings.TrimSpace(reason)
  interview.ConsumedAt = &now

  is.notifier.InterviewResponded(ctx, interview.SubmissionID, map[string]any{
    "interview_id": interview.ID,
    "status":       interview.Status,
  })
  return interview, nil
}

// stageForRound maps an interview round onto the pipeline stage the accept
// moves the submission into.
func stageForRound(round int) string {
  switch {
  case round <= 1:
    return types.StageInterview1
  default:
    return types.StageInterview2
  }
}
