package app

import (
	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/middleware"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/health", c.health.HealthCheck)
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api/v1")
	{
		// Public endpoints. Result reads carry an optional token so the
		// owner check can run when one is present.
		api.GET("/questions", c.content.ListQuestions)
		api.POST("/captcha/verify", c.auth.VerifyCaptcha)
		api.POST("/auth/magic-link", c.auth.RequestMagicLink)
		api.POST("/auth/magic-link/verify", c.auth.VerifyMagicLink)
		api.POST("/auth/admin/login", c.auth.AdminLogin)

		optional := api.Group("")
		optional.Use(middleware.TryAuthMiddleware(cfg))
		{
			optional.POST("/assessments", c.assessment.Submit)
			optional.GET("/responses/:id", c.assessment.GetResponse)
			optional.GET("/responses/:id/report", c.report.Download)
		}

		drafts := api.Group("/drafts")
		{
			drafts.GET("/contact", c.draft.GetContact)
			drafts.PUT("/contact", c.draft.UpdateContact)
			drafts.GET("/receipt", c.draft.GetReceipt)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.GET("/profile", c.auth.GetProfile)
			authed.GET("/assessments/mine", c.assessment.ListMine)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
		{
			admin.GET("/responses", c.assessment.ListResponses)
			admin.GET("/questions", c.content.ListAllQuestions)
			admin.POST("/questions", c.content.CreateQuestion)
			admin.PUT("/questions/:id", c.content.UpdateQuestion)
			admin.DELETE("/questions/:id", c.content.DeleteQuestion)
			admin.POST("/responses/:id/report", c.report.Upload)
		}
	}
}
