package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type PlaceService interface {
	Create(ctx context.Context, actor services.Actor, req types.PlaceRequest) (*models.Place, error)
	ListApproved(ctx context.Context) ([]models.Place, error)
	Get(ctx context.Context, id uint) (*models.Place, error)
	GetAny(ctx context.Context, id uint) (*models.Place, error)
	Filter(ctx context.Context, f types.PlaceFilter) ([]models.Place, error)
	Update(ctx context.Context, actor services.Actor, id uint, req types.PlaceUpdateRequest) (*models.Place, error)
}

type PlaceController struct {
	Places PlaceService
}

func NewPlaceController(places PlaceService) *PlaceController {
	return &PlaceController{Places: places}
}

// CreatePlace godoc
// @Summary Submit a place for review
// @Description Places from admins are approved immediately.
// @Router /places [post]
func (pc *PlaceController) CreatePlace(c *gin.Context) {
	var req types.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "place_name and address are required")
		return
	}
	place, err := pc.Places.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"place": place})
}

func (pc *PlaceController) GetPlaces(c *gin.Context) {
	places, err := pc.Places.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// SearchPlaces godoc
// @Param main_category query string false "Main category"
// @Param sub_category query string false "Sub category"
// @Param city query string false "Address fragment"
// @Param district query string false "Address fragment"
// @Param neighborhood query string false "Address fragment"
// @Router /places/search [get]
func (pc *PlaceController) SearchPlaces(c *gin.Context) {
	var filter types.PlaceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	places, err := pc.Places.Filter(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

func (pc *PlaceController) GetPlaceDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	place, err := pc.Places.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}
