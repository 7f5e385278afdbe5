package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/date-course/api-go/utils"
	"github.com/gin-gonic/gin"
)

type CollectionService interface {
	Create(ctx context.Context, actor services.Actor, req types.CollectionRequest) (*models.Collection, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Collection, error)
	ListPublic(ctx context.Context) ([]models.Collection, error)
	Update(ctx context.Context, actor services.Actor, id uint, req types.CollectionUpdateRequest) (*models.Collection, error)
	Delete(ctx context.Context, actor services.Actor, id uint) error
	AddPlace(ctx context.Context, actor services.Actor, collectionID, placeID uint) (*models.CollectionPlace, error)
	ListPlaces(ctx context.Context, actor services.Actor, collectionID uint) ([]models.Place, error)
	RemovePlace(ctx context.Context, actor services.Actor, collectionID, placeID uint) error
}

// CollectionController serves the zzim (favorites) endpoints.
type CollectionController struct {
	Collections CollectionService
}

func NewCollectionController(collections CollectionService) *CollectionController {
	return &CollectionController{Collections: collections}
}

func (cc *CollectionController) CreateCollection(c *gin.Context) {
	var req types.CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.UserID = defaultUser(c, req.UserID)

	col, err := cc.Collections.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"collection": col})
}

// GetUserCollections returns every collection to the owner and admins,
// and only the public ones to anybody else.
func (cc *CollectionController) GetUserCollections(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	cols, err := cc.Collections.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !utils.GetUser(c).CanActFor(userID) {
		visible := cols[:0]
		for _, col := range cols {
			if col.IsPublic {
				visible = append(visible, col)
			}
		}
		cols = visible
	}
	c.JSON(http.StatusOK, gin.H{"collections": cols})
}

func (cc *CollectionController) GetPublicCollections(c *gin.Context) {
	cols, err := cc.Collections.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": cols})
}

func (cc *CollectionController) UpdateCollection(c *gin.Context) {
	id, ok := idParam(c, "collection_id")
	if !ok {
		return
	}
	var req types.CollectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	col, err := cc.Collections.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": col})
}

func (cc *CollectionController) DeleteCollection(c *gin.Context) {
	id, ok := idParam(c, "collection_id")
	if !ok {
		return
	}
	if err := cc.Collections.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted"})
}

// AddPlace godoc
// @Summary Favorite a place into a collection
// @Description The place owner is credited once per favorite.
// @Router /zzim/collection_places [post]
func (cc *CollectionController) AddPlace(c *gin.Context) {
	var req types.CollectionPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "collection_id and place_id are required")
		return
	}
	link, err := cc.Collections.AddPlace(c.Request.Context(), actorFrom(c), req.CollectionID, req.PlaceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": link})
}

func (cc *CollectionController) GetCollectionPlaces(c *gin.Context) {
	id, ok := idParam(c, "collection_id")
	if !ok {
		return
	}
	places, err := cc.Collections.ListPlaces(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

func (cc *CollectionController) RemovePlace(c *gin.Context) {
	collectionID, ok := idParam(c, "collection_id")
	if !ok {
		return
	}
	placeID, ok := idParam(c, "place_id")
	if !ok {
		return
	}
	if err := cc.Collections.RemovePlace(c.Request.Context(), actorFrom(c), collectionID, placeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Place removed from collection"})
}
