package handlers

import (
  "io"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/talentbridge/talentbridge-backend/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  me, err := uh.userService.GetMe(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusBadRequest, "load_me_failed", err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

func (uh *UserHandler) UpdateName(c *gin.Context) {
  var req struct {
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  me, err := uh.userService.UpdateName(c.Request.Context(), req.FirstName, req.LastName)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_name_failed", err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

// PUT /api/user/avatar accepts the raw image bytes; multipart uploads send
// the file under the "avatar" field.
func (uh *UserHandler) UploadAvatar(c *gin.Context) {
  var raw []byte
  if file, err := c.FormFile("avatar"); err == nil {
    f, oErr := file.Open()
    if oErr != nil {
      RespondError(c, http.StatusBadRequest, "invalid_avatar", oErr)
      return
    }
    defer f.Close()
    raw, err = io.ReadAll(f)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_avatar", err)
      return
    }
  } else {
    var rErr error
    raw, rErr = io.ReadAll(c.Request.Body)
    if rErr != nil {
      RespondError(c, http.StatusBadRequest, "invalid_avatar", rErr)
      return
    }
  }
  if len(raw) == 0 {
    RespondError(c, http.StatusBadRequest, "invalid_avatar", nil)
    return
  }
  me, err := uh.userService.UploadAvatar(c.Request.Context(), raw)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "upload_avatar_failed", err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}
