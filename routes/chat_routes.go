package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(group *gin.RouterGroup, chatController *controllers.ChatController) {
	group.POST("/rooms/1on1", chatController.StartDirect)
	group.GET("/rooms/user/:userId", chatController.GetUserRooms)
	group.GET("/rooms/:roomId/messages", chatController.GetMessages)
	group.POST("/rooms/:roomId/messages", chatController.PostMessage)
}
