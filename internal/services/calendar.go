package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/clients/msgraph"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/requestdata"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type CalendarService interface {
  // ConnectURL returns the Microsoft consent URL for the current user.
  ConnectURL(ctx context.Context) (string, error)
  // CompleteConnect exchanges the OAuth code and stores the connection.
  CompleteConnect(ctx context.Context, userID uuid.UUID, code string) (*types.CalendarConnection, error)
  Disconnect(ctx context.Context) error
  GetConnection(ctx context.Context) (*types.CalendarConnection, error)
  FreeBusy(ctx context.Context, emails []string, start, end time.Time) ([]msgraph.ScheduleItem, error)
  CreateInterviewEvent(ctx context.Context, interview *types.Interview, attendees []string, subject string) (*msgraph.Event, error)
  UpdateEvent(ctx context.Context, eventID string, ev msgraph.Event) (*msgraph.Event, error)
  DeleteEvent(ctx context.Context, eventID string) error
}

type calendarService struct {
  db           *gorm.DB
  log          *logger.Logger
  connRepo     repos.CalendarConnectionRepo
  graphClient  msgraph.Client
}

func NewCalendarService(
  db *gorm.DB,
  log *logger.Logger,
  connRepo repos.CalendarConnectionRepo,
  graphClient msgraph.Client,
) CalendarService {
  return &calendarService{
    db:          db,
    log:         log.With("service", "CalendarService"),
    connRepo:    connRepo,
    graphClient: graphClient,
  }
}

func (cls *calendarService) currentUserID(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return uuid.Nil, fmt.Errorf("No request data found in context")
  }
  return rd.UserID, nil
}

func (cls *calendarService) ConnectURL(ctx context.Context) (string, error) {
  if cls.graphClient == nil {
    return "", fmt.Errorf("calendar integration is not configured")
  }
  userID, err := cls.currentUserID(ctx)
  if err != nil {
    return "", err
  }
  // The user id rides along as OAuth state so the callback can attach the
  // tokens to the right account.
  return cls.graphClient.AuthCodeURL(userID.String()), nil
}

func (cls *calendarService) CompleteConnect(ctx context.Context, userID uuid.UUID, code string) (*types.CalendarConnection, error) {
  if cls.graphClient == nil {
    return nil, fmt.Errorf("calendar integration is not configured")
  }
  if userID == uuid.Nil {
    return nil, fmt.Errorf("user id required")
  }
  token, tErr := cls.graphClient.ExchangeCode(ctx, code)
  if tErr != nil {
    return nil, fmt.Errorf("Failed to exchange authorization code: %w", tErr)
  }
  profile, pErr := cls.graphClient.Me(ctx, token.AccessToken)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load account profile: %w", pErr)
  }

  conn := &types.CalendarConnection{
    ID:           uuid.New(),
    UserID:       userID,
    Provider:     "microsoft",
    AccessToken:  token.AccessToken,
    RefreshToken: token.RefreshToken,
    TokenExpiry:  token.ExpiresAt,
    AccountEmail: profile.Email(),
  }
  if uErr := cls.connRepo.Upsert(ctx, nil, conn); uErr != nil {
    return nil, fmt.Errorf("Failed to store calendar connection: %w", uErr)
  }
  cls.log.Info("Calendar connected", "user_id", userID)
  return conn, nil
}

func (cls *calendarService) Disconnect(ctx context.Context) error {
  userID, err := cls.currentUserID(ctx)
  if err != nil {
    return err
  }
  return cls.connRepo.DeleteByUserID(ctx, nil, userID)
}

func (cls *calendarService) GetConnection(ctx context.Context) (*types.CalendarConnection, error) {
  userID, err := cls.currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  return cls.connRepo.GetByUserID(ctx, nil, userID)
}

// freshConnection returns the stored connection, refreshing the access token
// first when it is within the expiry buffer.
func (cls *calendarService) freshConnection(ctx context.Context) (*types.CalendarConnection, error) {
  conn, err := cls.GetConnection(ctx)
  if err != nil {
    return nil, err
  }
  if conn == nil {
    return nil, fmt.Errorf("No calendar connected")
  }

  const expiryBuffer = 2 * time.Minute
  if time.Now().Add(expiryBuffer).Before(conn.TokenExpiry) {
    return conn, nil
  }

  token, rErr := cls.graphClient.RefreshToken(ctx, conn.RefreshToken)
  if rErr != nil {
    return nil, fmt.Errorf("Failed to refresh calendar token: %w", rErr)
  }
  conn.AccessToken = token.AccessToken
  if token.RefreshToken != "" {
    conn.RefreshToken = token.RefreshToken
  }
  conn.TokenExpiry = token.ExpiresAt
  if uErr := cls.connRepo.Upsert(ctx, nil, conn); uErr != nil {
    return nil, fmt.Errorf("Failed to store refreshed token: %w", uErr)
  }
  return conn, nil
}

func (cls *calendarService) FreeBusy(ctx context.Context, emails []string, start, end time.Time) ([]msgraph.ScheduleItem, error) {
  if cls.graphClient == nil {
    return nil, fmt.Errorf("calendar integration is not configured")
  }
  conn, err := cls.freshConnection(ctx)
  if err != nil {
    return nil, err
  }
  return cls.graphClient.GetSchedule(ctx, conn.AccessToken, msgraph.ScheduleRequest{
    Emails: emails,
    Start:  start,
    End:    end,
  })
}

func (cls *calendarService) CreateInterviewEvent(ctx context.Context, interview *types.Interview, attendees []string, subject string) (*msgraph.Event, error) {
  if cls.graphClient == nil {
    return nil, fmt.Errorf("calendar integration is not configured")
  }
  if interview == nil || interview.ScheduledAt == nil {
    return nil, fmt.Errorf("interview is not scheduled")
  }
  conn, err := cls.freshConnection(ctx)
  if err != nil {
    return nil, err
  }
  if subject == "" {
    subject = fmt.Sprintf("Interview - round %d", interview.Round)
  }
  start := *interview.ScheduledAt
  end := start.Add(time.Duration(interview.DurationMinutes) * time.Minute)
  return cls.graphClient.CreateEvent(ctx, conn.AccessToken, msgraph.Event{
    Subject:   subject,
    Start:     start,
    End:       end,
    Attendees: attendees,
    Location:  interview.MeetingFormat,
  })
}

func (cls *calendarService) UpdateEvent(ctx context.Context, eventID string, ev msgraph.Event) (*msgraph.Event, error) {
  if cls.graphClient == nil {
    return nil, fmt.Errorf("calendar integration is not configured")
  }
  conn, err := cls.freshConnection(ctx)
  if err != nil {
    return nil, err
  }
  return cls.graphClient.UpdateEvent(ctx, conn.AccessToken, eventID, ev)
}

func (cls *calendarService) DeleteEvent(ctx context.Context, eventID string) error {
  if cls.graphClient == nil {
    return fmt.Errorf("calendar integration is not configured")
  }
  conn, err := cls.freshConnection(ctx)
  if err != nil {
    return err
  }
  return cls.graphClient.DeleteEvent(ctx, conn.AccessToken, eventID)
}
