package models

import (
	"time"
)

// Post is a board post.
type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDetail struct {
	Post
	Nickname *string `json:"nickname"`
}
