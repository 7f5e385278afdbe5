package types

type DirectRoomRequest struct {
	UserA uint `json:"userA" binding:"required"`
	UserB uint `json:"userB" binding:"required"`
}

type MessageRequest struct {
	SenderID uint   `json:"sender_id"`
	Content  string `json:"content" binding:"required"`
}
