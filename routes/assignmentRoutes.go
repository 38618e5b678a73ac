package routes

import (
	"societysync-be/controllers"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
)

// AssignmentRoutes sets up the work order routes
func AssignmentRoutes(r *gin.Engine) {
	staff := middlewares.RequireRoles(models.RoleCommittee, models.RoleTechnician)

	assignment := r.Group("/api/assignments", middlewares.AuthMiddleware(), staff)
	{
		assignment.GET("", controllers.GetAllAssignments)
		assignment.GET("/:id", controllers.GetAssignment)
		assignment.PUT("/:id/accept", controllers.AcceptAssignment)
		assignment.PUT("/:id/reject", controllers.RejectAssignment)
		assignment.PUT("/:id/start", controllers.StartAssignment)
		assignment.PUT("/:id/complete", controllers.CompleteAssignment)
		assignment.PUT("/:id/time", controllers.UpdateAssignmentTime)
	}
}
