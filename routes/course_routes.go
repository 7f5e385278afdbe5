package routes

import (
	"github.com/date-course/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupCourseRoutes(group *gin.RouterGroup, courseController *controllers.CourseController, auth gin.HandlerFunc) {
	group.GET("/allcourse", courseController.GetAllCourses)
	group.GET("/user_courses/:user_id", courseController.GetUserCourses)
	group.GET("/courses/:id", courseController.GetCourse)

	protected := group.Group("", auth)
	{
		protected.POST("/courses", courseController.CreateCourse)
		protected.PUT("/courses/:id/schedules", courseController.ReplaceSchedules)
		protected.DELETE("/courses/:id", courseController.DeleteCourse)
	}
}
