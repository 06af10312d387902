package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/requestdata"
  "github.com/talentbridge/talentbridge-backend/internal/types"
)

type UserService interface {
  GetMe(ctx context.Context) (*types.User, error)
  UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
  UploadAvatar(ctx context.Context, raw []byte) (*types.User, error)
}

type userService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  avatarService AvatarService
  notifier      Notifier
}

func NewUserService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  avatarService AvatarService,
  notifier Notifier,
) UserService {
  return &userService{
    db:            db,
    log:           log.With("service", "UserService"),
    userRepo:      userRepo,
    avatarService: avatarService,
    notifier:      notifier,
  }
}

func (us *userService) currentUser(ctx context.Context, tx *gorm.DB) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("User not found")
  }
  return users[0], nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
  return us.currentUser(ctx, nil)
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
  firstName = strings.TrimSpace(firstName)
  lastName = strings.TrimSpace(lastName)
  if firstName == "" || lastName == "" {
    return nil, fmt.Errorf("first name and last name are required")
  }
  var user *types.User
  err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    u, cErr := us.currentUser(ctx, tx)
    if cErr != nil {
      return cErr
    }
    u.FirstName = firstName
    u.LastName = lastName
    // Name changed, so the initials avatar is stale.
    if us.avatarService != nil {
      if aErr := us.avatarService.CreateAndUploadUserAvatar(ctx, tx, u); aErr != nil {
        return aErr
      }
    }
    if uErr := us.userRepo.UpdateFields(ctx, tx, u.ID, map[string]interface{}{
      "first_name":        u.FirstName,
      "last_name":         u.LastName,
      "avatar_bucket_key": u.AvatarBucketKey,
      "avatar_url":        u.AvatarURL,
      "avatar_color_hex":  u.AvatarColorHex,
      "updated_at":        time.Now(),
    }); uErr != nil {
      return fmt.Errorf("Failed to update user: %w", uErr)
    }
    user = u
    return nil
  })
  if err != nil {
    return nil, err
  }
  us.notifier.UserAvatarUpdated(ctx, user.ID, map[string]any{"avatar_url": user.AvatarURL})
  return user, nil
}

func (us *userService) UploadAvatar(ctx context.Context, raw []byte) (*types.User, error) {
  if len(raw) == 0 {
    return nil, fmt.Errorf("empty image payload")
  }
  var user *types.User
  err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    u, cErr := us.currentUser(ctx, tx)
    if cErr != nil {
      return cErr
    }
    if us.avatarService == nil {
      return fmt.Errorf("avatar storage is not configured")
    }
    if aErr := us.avatarService.CreateAndUploadUserAvatarFromImage(ctx, tx, u, raw); aErr != nil {
      return aErr
    }
    if uErr := us.userRepo.UpdateFields(ctx, tx, u.ID, map[string]interface{}{
      "avatar_bucket_key": u.AvatarBucketKey,
      "avatar_url":        u.AvatarURL,
      "updated_at":        time.Now(),
    }); uErr != nil {
      return fmt.Errorf("Failed to update user avatar: %w", uErr)
    }
    user = u
    return nil
  })
  if err != nil {
    return nil, err
  }
  us.notifier.UserAvatarUpdated(ctx, user.ID, map[string]any{"avatar_url": user.AvatarURL})
  return user, nil
}
