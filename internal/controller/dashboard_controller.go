package controller

import (
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// StudentReport is the teacher's drill-down into one student.
// swagger:model StudentReport
type StudentReport struct {
	View     aggregate.StudentView      `json:"view"`
	Progress []aggregate.LessonProgress `json:"progress"`
}

// GetDashboard godoc
// @Summary Aggregated dashboard snapshot
// @Description Collections plus completion sets, lesson tallies, ranking, word frequency and struggling students
// @Tags dashboard
// @Produce json
// @Success 200 {object} aggregate.Snapshot
// @Router /dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	snap, err := c.DashboardService.Snapshot(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// GetTeacherView godoc
// @Summary Teacher analytics
// @Tags dashboard
// @Produce json
// @Success 200 {object} aggregate.TeacherView
// @Router /dashboard/teacher [get]
func (c *DashboardController) GetTeacherView(ctx *gin.Context) {
	snap, err := c.DashboardService.Snapshot(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snap.ForTeacher())
}

// GetStudentReport godoc
// @Summary One student's home view and per-lesson progress
// @Tags dashboard
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} StudentReport
// @Router /dashboard/students/{username} [get]
func (c *DashboardController) GetStudentReport(ctx *gin.Context) {
	snap, err := c.DashboardService.Snapshot(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	username := ctx.Param("username")
	util.Success(ctx, StudentReport{
		View:     snap.ForStudent(username),
		Progress: snap.StudentDetail(username),
	})
}
