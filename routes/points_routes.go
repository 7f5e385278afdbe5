package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupPointsRoutes(group *gin.RouterGroup, pointsController *controllers.PointsController) {
	group.GET("/history/:userId", pointsController.GetHistory)
	group.GET("/balance/:userId", pointsController.GetBalance)
}
