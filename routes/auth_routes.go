package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(group *gin.RouterGroup, authController *controllers.AuthController, validationController *controllers.ValidationController, auth gin.HandlerFunc) {
	group.POST("/signup", authController.Register)
	group.POST("/login", authController.Login)
	group.GET("/check-nickname", validationController.CheckNickname)
	group.GET("/check-email", validationController.CheckEmail)
	group.GET("/profile/:userId", auth, authController.GetProfile)
}
