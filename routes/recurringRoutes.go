package routes

import (
	"time"

	"societysync-be/cache"
	"societysync-be/controllers"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
)

// RecurringRoutes sets up the recurring-alert routes
func RecurringRoutes(r *gin.Engine, cacheSvc *cache.Service) {
	recurring := r.Group("/api/recurring-alerts",
		middlewares.AuthMiddleware(),
		middlewares.RequireRoles(models.RoleCommittee))
	{
		recurring.GET("", cache.Middleware(cacheSvc, 5*time.Minute), controllers.GetRecurringAlerts)
		recurring.POST("/detect", controllers.DetectRecurringIssues)
	}
}
