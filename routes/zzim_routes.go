package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupZzimRoutes(group *gin.RouterGroup, collectionController *controllers.CollectionController, auth, optionalAuth gin.HandlerFunc) {
	group.GET("/public_collections", collectionController.GetPublicCollections)
	group.GET("/collections/:user_id", optionalAuth, collectionController.GetUserCollections)
	group.GET("/collection_places/:collection_id", optionalAuth, collectionController.GetCollectionPlaces)

	protected := group.Group("", auth)
	{
		protected.POST("/collections", collectionController.CreateCollection)
		protected.PATCH("/collections/:collection_id", collectionController.UpdateCollection)
		protected.DELETE("/collections/:collection_id", collectionController.DeleteCollection)
		protected.POST("/collection_places", collectionController.AddPlace)
		protected.DELETE("/collection_places/:collection_id/:place_id", collectionController.RemovePlace)
	}
}
