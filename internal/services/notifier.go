package services

import (
  "context"
  "github.com/google/uuid"
  "github.com/talentbridge/talentbridge-backend/internal/clients/redisbus"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/sse"
)

// Notifier pushes pipeline events onto the redis bus. Publish failures are
// logged and swallowed: a dropped live update must never fail the write that
// produced it.
type Notifier interface {
  SubmissionCreated(ctx context.Context, submissionID uuid.UUID, data any)
  SubmissionStageChanged(ctx context.Context, submissionID uuid.UUID, data any)
  InterviewScheduled(ctx context.Context, submissionID uuid.UUID, data any)
  InterviewResponded(ctx context.Context, submissionID uuid.UUID, data any)
  InfluenceAlertCreated(ctx context.Context, submissionID uuid.UUID, data any)
  DealHealthUpdated(ctx context.Context, submissionID uuid.UUID, data any)
  SummaryGenerated(ctx context.Context, submissionID uuid.UUID, data any)
  LeadDiscovered(ctx context.Context, data any)
  UserAvatarUpdated(ctx context.Context, userID uuid.UUID, data any)
}

type notifier struct {
  log *logger.Logger
  bus redisbus.EventBus
}

func NewNotifier(log *logger.Logger, bus redisbus.EventBus) Notifier {
  return &notifier{log: log.With("service", "Notifier"), bus: bus}
}

func (n *notifier) publish(ctx context.Context, channel string, event sse.SSEEvent, data any) {
  if n.bus == nil {
    return
  }
  msg := sse.SSEMessage{Channel: channel, Event: event, Data: data}
  if err := n.bus.Publish(ctx, msg); err != nil {
    n.log.Warn("Failed to publish event", "event", string(event), "channel", channel, "error", err)
  }
}

func (n *notifier) SubmissionCreated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventSubmissionCreated, data)
}

func (n *notifier) SubmissionStageChanged(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventSubmissionStageChanged, data)
}

func (n *notifier) InterviewScheduled(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventInterviewScheduled, data)
}

func (n *notifier) InterviewResponded(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventInterviewResponded, data)
}

func (n *notifier) InfluenceAlertCreated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventInfluenceAlertCreated, data)
}

func (n *notifier) DealHealthUpdated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventDealHealthUpdated, data)
}

func (n *notifier) SummaryGenerated(ctx context.Context, submissionID uuid.UUID, data any) {
  n.publish(ctx, sse.SubmissionChannel(submissionID), sse.SSEEventSummaryGenerated, data)
}

func (n *notifier) LeadDiscovered(ctx context.Context, data any) {
  n.publish(ctx, "leads", sse.SSEEventLeadDiscovered, data)
}

func (n *notifier) UserAvatarUpdated(ctx context.Context, userID uuid.UUID, data any) {
  n.publish(ctx, sse.UserChannel(userID), sse.SSEEventUserAvatarUpdated, data)
}
