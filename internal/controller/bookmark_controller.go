package controller

import (
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BookmarkController struct {
	BookmarkService *service.BookmarkService
}

func NewBookmarkController(bookmarkService *service.BookmarkService) *BookmarkController {
	return &BookmarkController{BookmarkService: bookmarkService}
}

// ToggleBookmarkRequest identifies a card by its question text.
// swagger:model ToggleBookmarkRequest
type ToggleBookmarkRequest struct {
	Username string `json:"username" binding:"required"`
	LessonID string `json:"lessonId"`
	Q        string `json:"q" binding:"required"`
	A        string `json:"a"`
}

// ToggleBookmark godoc
// @Summary Add or remove a bookmark
// @Description Removes the user's bookmark with the same question text if there is one, otherwise adds it
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param bookmark body ToggleBookmarkRequest true "Bookmark"
// @Success 200 {object} model.ToggleBookmarkResponse
// @Failure 400 {object} util.ErrorResponse
// @Router /bookmarks/toggle [post]
func (c *BookmarkController) ToggleBookmark(ctx *gin.Context) {
	var req ToggleBookmarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	action, err := c.BookmarkService.Toggle(ctx.Request.Context(), &model.Bookmark{
		Username: req.Username,
		LessonID: req.LessonID,
		Q:        req.Q,
		A:        req.A,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, model.ToggleBookmarkResponse{Action: action})
}

// GetBookmarks godoc
// @Summary List a user's bookmarks, newest first
// @Tags bookmarks
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} model.Bookmark
// @Router /bookmarks/{username} [get]
func (c *BookmarkController) GetBookmarks(ctx *gin.Context) {
	bookmarks, err := c.BookmarkService.ListForUser(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, bookmarks)
}
