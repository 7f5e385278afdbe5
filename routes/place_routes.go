package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupPlaceRoutes(group *gin.RouterGroup, placeController *controllers.PlaceController, reportController *controllers.ReportController, auth gin.HandlerFunc) {
	group.GET("", placeController.GetPlaces)
	group.GET("/search", placeController.SearchPlaces)
	group.GET("/:id", placeController.GetPlaceDetails)

	group.POST("", auth, placeController.CreatePlace)
	group.POST("/:id/report", auth, reportController.ReportPlace)
}

func SetupBoardRoutes(group *gin.RouterGroup, boardController *controllers.BoardController, reportController *controllers.ReportController, auth gin.HandlerFunc) {
	group.GET("", boardController.GetPosts)
	group.GET("/posts/:postId", boardController.GetPost)

	group.POST("", auth, boardController.CreatePost)
	group.DELETE("/:id", auth, boardController.DeletePost)
	group.POST("/:id/report", auth, reportController.ReportPost)
}
