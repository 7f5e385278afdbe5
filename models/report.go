package models

import (
	"time"
)

const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
)

// PlaceReport keeps the place id without a foreign key so the report
// outlives a deleted place.
type PlaceReport struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlaceID   uint      `gorm:"not null;index" json:"place_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Category  string    `gorm:"not null" json:"category"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaceReportDetail is the admin listing row. Both names are nil once the
// place or the reporter is gone.
type PlaceReportDetail struct {
	PlaceReport
	ReporterNickname *string `json:"reporter_nickname"`
	PlaceName        *string `json:"place_name"`
}

type PostReport struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Category  string    `gorm:"not null" json:"category"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
