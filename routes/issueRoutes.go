package routes

import (
	"time"

	"societysync-be/cache"
	"societysync-be/controllers"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, cacheSvc *cache.Service) {
	issue := r.Group("/api/issues", middlewares.AuthMiddleware(), middlewares.RequireRoles())
	{
		issue.POST("", middlewares.IssueRateLimiter(10), controllers.CreateIssue)
		issue.GET("", cache.Middleware(cacheSvc, 60*time.Second), controllers.GetAllIssues)
		issue.GET("/admin/all",
			middlewares.RequireRoles(models.RoleCommittee, models.RoleTechnician),
			cache.Middleware(cacheSvc, 60*time.Second),
			controllers.GetAllIssuesAdmin)
		issue.GET("/:id", controllers.GetIssue)
		issue.PUT("/:id", controllers.UpdateIssue)
		issue.DELETE("/:id", middlewares.RequireRoles(models.RoleCommittee), controllers.DeleteIssue)
		issue.PUT("/:id/status",
			middlewares.RequireRoles(models.RoleCommittee, models.RoleTechnician),
			controllers.UpdateIssueStatus)
		issue.POST("/:id/assign",
			middlewares.RequireRoles(models.RoleCommittee),
			controllers.AssignIssue)
	}
}
