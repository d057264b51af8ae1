package app

import (
	"nihongo_backend/docs"
	"nihongo_backend/internal/middleware"
	"nihongo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/", c.system.Root)

	api := router.Group("/api")
	api.Use(middleware.CallerMiddleware(a.Config.Auth.Secret), middleware.InvalidateOnWrite(a.services.dashboard))
	{
		api.GET("/health", c.system.HealthCheck)

		a.registerLessonRoutes(api, c)
		a.registerUserRoutes(api, c)
		a.registerResultRoutes(api, c)

		api.GET("/activities", c.activity.GetActivities)

		api.POST("/bookmarks/toggle", c.bookmark.ToggleBookmark)
		api.GET("/bookmarks/:username", c.bookmark.GetBookmarks)

		api.POST("/system/reset", c.system.ResetSystem)

		api.GET("/dashboard", c.dashboard.GetDashboard)
		api.GET("/dashboard/teacher", c.dashboard.GetTeacherView)
		api.GET("/dashboard/students/:username", c.dashboard.GetStudentReport)
	}
}

func (a *App) registerLessonRoutes(api *gin.RouterGroup, c *controllers) {
	lessons := api.Group("/lessons")
	{
		lessons.GET("", c.lesson.GetLessons)
		lessons.POST("", c.lesson.CreateLesson)
		lessons.PUT("/:id", c.lesson.UpdateLesson)
		lessons.DELETE("/:id", c.lesson.DeleteLesson)
	}
}

func (a *App) registerUserRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/users", c.user.GetUsers)
	api.POST("/login", c.user.Login)
	api.DELETE("/users/:username", c.user.DeleteUser)
}

func (a *App) registerResultRoutes(api *gin.RouterGroup, c *controllers) {
	results := api.Group("/results")
	{
		results.POST("", c.result.SubmitResult)
		results.GET("", c.result.GetResults)
		results.GET("/student/:username", c.result.GetStudentResults)
	}
}
