package controller

import (
	"net/http"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/service"
	"nihongo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const Banner = "Japanese Learning App Backend is running!"

type SystemController struct {
	SystemService *service.SystemService
	Cache         *repository.DashboardCacheRepository
}

func NewSystemController(systemService *service.SystemService, cache *repository.DashboardCacheRepository) *SystemController {
	return &SystemController{SystemService: systemService, Cache: cache}
}

func (c *SystemController) Root(ctx *gin.Context) {
	ctx.String(http.StatusOK, Banner)
}

// ResetSystem godoc
// @Summary Wipe all data except the admin account
// @Tags system
// @Produce json
// @Success 200 {object} util.MessageResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /system/reset [post]
func (c *SystemController) ResetSystem(ctx *gin.Context) {
	if err := c.SystemService.Reset(ctx.Request.Context(), util.GetCaller(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.MessageResponse{Message: service.ResetMessage})
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports the database and, when enabled, the cache
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (c *SystemController) HealthCheck(ctx *gin.Context) {
	status := http.StatusOK
	components := gin.H{}
	for name, err := range c.SystemService.Health(ctx.Request.Context(), c.Cache) {
		if err != nil {
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	ctx.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}
