package types

type PostRequest struct {
	UserID  uint   `json:"user_id"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type PostFilter struct {
	Search string `form:"search"`
	UserID uint   `form:"user_id"`
}
