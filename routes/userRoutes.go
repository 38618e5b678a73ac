package routes

import (
	"societysync-be/controllers"
	"societysync-be/middlewares"
	"societysync-be/models"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the user profile routes
func UserRoutes(r *gin.Engine) {
	users := r.Group("/api/users", middlewares.AuthMiddleware())
	{
		users.PUT("/me", middlewares.RequireRoles(), controllers.UpdateProfile)
		users.PUT("/me/password", middlewares.RequireRoles(), controllers.ChangePassword)
		users.GET("/technicians",
			middlewares.RequireRoles(models.RoleCommittee, models.RoleTechnician),
			controllers.ListTechnicians)
	}
}
