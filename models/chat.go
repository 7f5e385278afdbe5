package models

import "time"

type ChatRoom struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	IsGroup   bool      `gorm:"not null;default:false" json:"is_group"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRoomMember struct {
	RoomID uint `gorm:"primaryKey" json:"room_id"`
	UserID uint `gorm:"primaryKey" json:"user_id"`
}

type Message struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID   uint      `gorm:"not null;index" json:"room_id"`
	SenderID uint      `gorm:"not null" json:"sender_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	SentAt   time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

// ChatRoomSummary is one row of a user's room list. PeerNickname is the
// other member of a 1:1 room.
type ChatRoomSummary struct {
	RoomID        uint       `json:"room_id"`
	IsGroup       bool       `json:"is_group"`
	LastMessageAt *time.Time `json:"last_message_at"`
	PeerNickname  *string    `json:"peer_nickname"`
}

type MessageDetail struct {
	ID             uint      `json:"id"`
	SenderID       uint      `json:"sender_id"`
	SenderNickname string    `json:"sender_nickname"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}
