package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupShopRoutes(group *gin.RouterGroup, shopController *controllers.ShopController, auth, adminOnly gin.HandlerFunc) {
	group.GET("/items", shopController.GetItems)
	group.POST("/purchase", auth, shopController.Purchase)
	group.GET("/purchases/:userId", auth, shopController.GetPurchases)

	admin := group.Group("/admin", auth, adminOnly)
	{
		admin.GET("/items", shopController.GetItems)
		admin.POST("/items", shopController.CreateItem)
		admin.GET("/items/:id", shopController.GetItem)
		admin.PATCH("/items/:id", shopController.UpdateItem)
		admin.DELETE("/items/:id", shopController.DeleteItem)
	}
}
