package controller

import (
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityService *service.ActivityService
}

func NewActivityController(activityService *service.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

// GetActivities godoc
// @Summary Recent activity feed
// @Description The ten most recent activities, newest first
// @Tags activities
// @Produce json
// @Success 200 {array} model.Activity
// @Router /activities [get]
func (c *ActivityController) GetActivities(ctx *gin.Context) {
	activities, err := c.ActivityService.Recent(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}
