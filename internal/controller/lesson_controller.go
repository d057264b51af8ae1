package controller

import (
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// CreateLessonRequest is the body of POST /api/lessons.
// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Content     []model.ContentItem `json:"content"`
}

// UpdateLessonRequest replaces whichever of title and content is present.
// swagger:model UpdateLessonRequest
type UpdateLessonRequest struct {
	Title   *string              `json:"title"`
	Content *[]model.ContentItem `json:"content"`
}

// GetLessons godoc
// @Summary List lessons
// @Description All lessons in the order they were created
// @Tags lessons
// @Produce json
// @Success 200 {array} model.Lesson
// @Failure 500 {object} util.ErrorResponse
// @Router /lessons [get]
func (c *LessonController) GetLessons(ctx *gin.Context) {
	lessons, err := c.LessonService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param lesson body CreateLessonRequest true "Lesson"
// @Success 201 {object} model.Lesson
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	lesson := &model.Lesson{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	}
	if err := c.LessonService.Create(ctx.Request.Context(), util.GetCaller(ctx), lesson); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary Replace a lesson's title and content
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param lesson body UpdateLessonRequest true "Fields to replace"
// @Success 200 {object} model.Lesson
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	var req UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	lesson, err := c.LessonService.Update(ctx.Request.Context(), util.GetCaller(ctx), ctx.Param("id"), service.LessonUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson and its results
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} model.DeleteLessonResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	removed, err := c.LessonService.Delete(ctx.Request.Context(), util.GetCaller(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, model.DeleteLessonResponse{
		Message:             "Lesson and associated results deleted successfully",
		DeletedResultsCount: removed,
	})
}
