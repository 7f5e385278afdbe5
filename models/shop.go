package models

import "time"

type ShopItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Category    string    `gorm:"not null;index" json:"category"`
	Name        string    `gorm:"not null" json:"name"`
	ImageURL    string    `json:"image_url"`
	PricePoints int       `gorm:"not null" json:"price_points"`
	CreatedAt   time.Time `json:"created_at"`
}

type ShopPurchase struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ItemID      uint      `gorm:"not null" json:"item_id"`
	Barcode     string    `gorm:"not null;unique" json:"barcode"`
	PurchasedAt time.Time `gorm:"autoCreateTime" json:"purchased_at"`
}
