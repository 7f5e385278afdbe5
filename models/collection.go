package models

import "time"

const (
	RewardPending = "pending"
	RewardGranted = "granted"
	RewardSkipped = "skipped"
)

type Collection struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	CollectionName string    `gorm:"not null" json:"collection_name"`
	Description    string    `json:"description"`
	Thumbnail      string    `json:"thumbnail"`
	IsPublic       bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CollectionPlace is a favorite. RewardStatus tracks the owner credit that
// the favorite triggers.
type CollectionPlace struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_place" json:"collection_id"`
	PlaceID      uint      `gorm:"not null;uniqueIndex:idx_collection_place" json:"place_id"`
	RewardStatus string    `gorm:"not null;default:'pending'" json:"reward_status"`
	CreatedAt    time.Time `json:"created_at"`
}
