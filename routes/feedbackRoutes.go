package routes

import (
	"societysync-be/controllers"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
)

// FeedbackRoutes sets up the feedback routes
func FeedbackRoutes(r *gin.Engine) {
	feedback := r.Group("/api/feedback", middlewares.AuthMiddleware(), middlewares.RequireRoles())
	{
		feedback.POST("", controllers.CreateFeedback)
		feedback.GET("/issue/:id", controllers.GetIssueFeedback)
		feedback.PUT("/:id/moderate",
			middlewares.RequireRoles(models.RoleCommittee),
			controllers.ModerateFeedback)
	}
}
