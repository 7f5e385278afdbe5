package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Nickname     string     `gorm:"unique;not null" json:"nickname"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date"`
	Gender       string     `json:"gender"`
	ProfileImage string     `json:"profile_image"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"is_admin"`
	// Points is the cached balance. Only the ledger writes it.
	Points int `gorm:"not null;default:0" json:"points"`
}
