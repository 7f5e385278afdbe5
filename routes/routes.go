package routes

import (
	"net/http"

	"github.com/date-course/api-go/controllers"
	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers bundles the handlers SetupRoutes mounts.
type Controllers struct {
	Auth        *controllers.AuthController
	Validation  *controllers.ValidationController
	Courses     *controllers.CourseController
	Collections *controllers.CollectionController
	Points      *controllers.PointsController
	Places      *controllers.PlaceController
	Reports     *controllers.ReportController
	Admin       *controllers.AdminController
	Shop        *controllers.ShopController
	Chat        *controllers.ChatController
	Board       *controllers.BoardController
}

func SetupRoutes(r *gin.Engine, ctl Controllers, jwtSecret []byte, m *metrics.Metrics) {
	auth := middleware.AuthMiddleware(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)
	adminOnly := middleware.AdminOnly()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	SetupAuthRoutes(r.Group("/auth"), ctl.Auth, ctl.Validation, auth)
	SetupCourseRoutes(r.Group("/course"), ctl.Courses, auth)
	SetupZzimRoutes(r.Group("/zzim"), ctl.Collections, auth, optionalAuth)
	r.GET("/points/rules", ctl.Points.GetRules)
	SetupPointsRoutes(r.Group("/points", auth), ctl.Points)
	SetupPlaceRoutes(r.Group("/places"), ctl.Places, ctl.Reports, auth)
	SetupBoardRoutes(r.Group("/boards"), ctl.Board, ctl.Reports, auth)
	SetupChatRoutes(r.Group("/chat", auth), ctl.Chat)
	SetupAdminRoutes(r.Group("/admin", auth, adminOnly), ctl.Admin)
	SetupShopRoutes(r.Group("/shop"), ctl.Shop, auth, adminOnly)
}
