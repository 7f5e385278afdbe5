package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Place struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         *uint          `gorm:"index" json:"user_id"`
	PlaceName      string         `gorm:"not null" json:"place_name"`
	Description    string         `gorm:"type:text" json:"description"`
	Address        string         `gorm:"not null" json:"address"`
	Phone          string         `json:"phone"`
	MainCategory   string         `gorm:"index" json:"main_category"`
	SubCategory    string         `json:"sub_category"`
	Hashtags       pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	Images         pq.StringArray `gorm:"type:text[]" json:"images"`
	OperatingHours datatypes.JSON `gorm:"type:jsonb" json:"operating_hours"`
	PriceInfo      datatypes.JSON `gorm:"type:jsonb" json:"price_info"`
	WithWho        pq.StringArray `gorm:"type:text[]" json:"with_who"`
	Purpose        pq.StringArray `gorm:"type:text[]" json:"purpose"`
	Mood           pq.StringArray `gorm:"type:text[]" json:"mood"`
	IsApproved     bool           `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
