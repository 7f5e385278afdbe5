package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type ModerationService interface {
	PendingPlaces(ctx context.Context) ([]models.Place, error)
	ApprovePlace(ctx context.Context, id uint) (*models.Place, error)
	RejectPlace(ctx context.Context, id uint) error
	ListPlaceReports(ctx context.Context) ([]models.PlaceReportDetail, error)
	ListPostReports(ctx context.Context) ([]models.PostReport, error)
	ResolvePlaceReport(ctx context.Context, reportID uint, res types.Resolution) (*models.PlaceReport, error)
	ResolvePostReport(ctx context.Context, reportID uint, res types.Resolution) (*models.PostReport, error)
}

// AdminController serves the moderation screens. Every route sits behind
// AdminOnly.
type AdminController struct {
	Moderation ModerationService
	Places     PlaceService
}

func NewAdminController(moderation ModerationService, places PlaceService) *AdminController {
	return &AdminController{Moderation: moderation, Places: places}
}

func (ac *AdminController) GetPlaceRequests(c *gin.Context) {
	places, err := ac.Moderation.PendingPlaces(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// ApprovePlace godoc
// @Summary Approve a pending place
// @Description Credits the submitter PLACE_APPROVAL_REWARD_POINTS.
// @Router /admin/place-requests/{id}/approve [post]
func (ac *AdminController) ApprovePlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	place, err := ac.Moderation.ApprovePlace(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Place approved", "place": place})
}

func (ac *AdminController) RejectPlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ac.Moderation.RejectPlace(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Place rejected"})
}

func (ac *AdminController) GetPlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	place, err := ac.Places.GetAny(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}

func (ac *AdminController) UpdatePlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.PlaceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	place, err := ac.Places.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}

func (ac *AdminController) GetPlaceReports(c *gin.Context) {
	reports, err := ac.Moderation.ListPlaceReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (ac *AdminController) GetPostReports(c *gin.Context) {
	reports, err := ac.Moderation.ListPostReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolvePlaceReport godoc
// @Summary Resolve a place report, optionally deleting the place
// @Description A non-empty message is sent to the reporter over chat.
// @Router /admin/place-reports/{reportId} [patch]
func (ac *AdminController) ResolvePlaceReport(c *gin.Context) {
	id, ok := idParam(c, "reportId")
	if !ok {
		return
	}
	var req types.PlaceReportResolveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	report, err := ac.Moderation.ResolvePlaceReport(c.Request.Context(), id, types.Resolution{
		DeleteSubject: req.DeletePlace,
		AdminID:       defaultUser(c, req.UserID),
		Message:       req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (ac *AdminController) ResolvePostReport(c *gin.Context) {
	id, ok := idParam(c, "reportId")
	if !ok {
		return
	}
	var req types.PostReportResolveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	report, err := ac.Moderation.ResolvePostReport(c.Request.Context(), id, types.Resolution{
		DeleteSubject: req.DeletePost,
		AdminID:       defaultUser(c, req.UserID),
		Message:       req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
