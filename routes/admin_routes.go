package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes expects group to carry AuthMiddleware and AdminOnly.
func SetupAdminRoutes(group *gin.RouterGroup, adminController *controllers.AdminController) {
	group.GET("/place-requests", adminController.GetPlaceRequests)
	group.POST("/place-requests/:id/approve", adminController.ApprovePlace)
	group.POST("/place-requests/:id/reject", adminController.RejectPlace)

	group.GET("/places/:id", adminController.GetPlace)
	group.PATCH("/places/:id", adminController.UpdatePlace)

	group.GET("/place-reports", adminController.GetPlaceReports)
	group.PATCH("/place-reports/:reportId", adminController.ResolvePlaceReport)
	group.GET("/post-reports", adminController.GetPostReports)
	group.PATCH("/post-reports/:reportId", adminController.ResolvePostReport)
}
