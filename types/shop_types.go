package types

type ShopItemRequest struct {
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ImageURL    string `json:"image_url"`
	PricePoints int    `json:"price_points" binding:"required"`
}

type PurchaseRequest struct {
	UserID uint `json:"user_id"`
	ItemID uint `json:"item_id" binding:"required"`
}
