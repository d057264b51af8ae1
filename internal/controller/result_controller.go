package controller

import (
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// SubmitResultRequest is one graded quiz attempt. Score is a pointer so that
// zero is accepted while a missing score is not.
// swagger:model SubmitResultRequest
type SubmitResultRequest struct {
	Username    string             `json:"username" binding:"required"`
	LessonID    string             `json:"lessonId" binding:"required"`
	LessonTitle string             `json:"lessonTitle"`
	Score       *float64           `json:"score" binding:"required"`
	Status      model.ResultStatus `json:"status" binding:"required,oneof=completed failed"`
}

// SubmitResult godoc
// @Summary Submit a quiz result
// @Tags results
// @Accept json
// @Produce json
// @Param result body SubmitResultRequest true "Result"
// @Success 201 {object} model.Result
// @Failure 400 {object} util.ErrorResponse
// @Router /results [post]
func (c *ResultController) SubmitResult(ctx *gin.Context) {
	var req SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	result := &model.Result{
		Username:    req.Username,
		LessonID:    req.LessonID,
		LessonTitle: req.LessonTitle,
		Score:       *req.Score,
		Status:      req.Status,
	}
	if err := c.ResultService.Submit(ctx.Request.Context(), result); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// GetResults godoc
// @Summary List all results
// @Tags results
// @Produce json
// @Success 200 {array} model.Result
// @Router /results [get]
func (c *ResultController) GetResults(ctx *gin.Context) {
	results, err := c.ResultService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GetStudentResults godoc
// @Summary List one student's results, newest first
// @Tags results
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} model.StudentResult
// @Failure 404 {object} util.ErrorResponse
// @Router /results/student/{username} [get]
func (c *ResultController) GetStudentResults(ctx *gin.Context) {
	results, err := c.ResultService.ListForStudent(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
