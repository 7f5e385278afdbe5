package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type ShopService interface {
	ListItems(ctx context.Context, category string) ([]models.ShopItem, error)
	GetItem(ctx context.Context, id uint) (*models.ShopItem, error)
	CreateItem(ctx context.Context, req types.ShopItemRequest) (*models.ShopItem, error)
	UpdateItem(ctx context.Context, id uint, req types.ShopItemRequest) (*models.ShopItem, error)
	DeleteItem(ctx context.Context, id uint) error
	Purchase(ctx context.Context, actor services.Actor, userID, itemID uint) (*models.ShopPurchase, error)
	Purchases(ctx context.Context, userID uint) ([]models.ShopPurchase, error)
}

type ShopController struct {
	Shop ShopService
}

func NewShopController(shop ShopService) *ShopController {
	return &ShopController{Shop: shop}
}

func (sc *ShopController) GetItems(c *gin.Context) {
	items, err := sc.Shop.ListItems(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Purchase godoc
// @Summary Buy an item with points
// @Description 409 when the balance does not cover the price.
// @Router /shop/purchase [post]
func (sc *ShopController) Purchase(c *gin.Context) {
	var req types.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "item_id is required")
		return
	}
	purchase, err := sc.Shop.Purchase(c.Request.Context(), actorFrom(c), defaultUser(c, req.UserID), req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}

func (sc *ShopController) GetPurchases(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok || !requireSelf(c, userID) {
		return
	}
	purchases, err := sc.Shop.Purchases(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (sc *ShopController) CreateItem(c *gin.Context) {
	var req types.ShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "category, name and price_points are required")
		return
	}
	item, err := sc.Shop.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (sc *ShopController) GetItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := sc.Shop.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (sc *ShopController) UpdateItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.ShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "category, name and price_points are required")
		return
	}
	item, err := sc.Shop.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (sc *ShopController) DeleteItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := sc.Shop.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
