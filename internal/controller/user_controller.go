package controller

import (
	"fmt"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"
	"nihongo_backend/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	UserService *service.UserService
	// Secret signs session tokens. Empty disables them.
	Secret     string
	Expiration time.Duration
}

func NewUserController(userService *service.UserService, secret string, expiration time.Duration) *UserController {
	return &UserController{
		UserService: userService,
		Secret:      secret,
		Expiration:  expiration,
	}
}

// LoginRequest logs in or registers username. Role only applies on registration.
// swagger:model LoginRequest
type LoginRequest struct {
	Username string         `json:"username" binding:"required"`
	Role     model.UserRole `json:"role"`
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Router /users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.UserService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// Login godoc
// @Summary Log in, registering on first use
// @Description Returns the stored user. A new user gets the requested role; an existing user keeps theirs.
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credentials"
// @Success 200 {object} model.User
// @Header 200 {string} X-Session-Token "Signed session token, when enabled"
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	user, _, err := c.UserService.Login(ctx.Request.Context(), req.Username, req.Role)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if c.Secret != "" {
		token, err := util.GenerateSessionToken(user, c.Secret, c.Expiration)
		if err != nil {
			logger.Log.Error("Failed to sign session token", zap.String("username", user.Username), zap.Error(err))
		} else {
			ctx.Header(util.SessionTokenHeader, token)
		}
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary Delete a user with their results and bookmarks
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} util.MessageResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /users/{username} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	username := ctx.Param("username")
	if err := c.UserService.Delete(ctx.Request.Context(), util.GetCaller(ctx), username); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.MessageResponse{
		Message: fmt.Sprintf("All records of user %s have been successfully deleted.", username),
	})
}
