package types

type CollectionRequest struct {
	UserID         uint   `json:"user_id"`
	CollectionName string `json:"collection_name"`
	Description    string `json:"description"`
	Thumbnail      string `json:"thumbnail"`
	IsPublic       bool   `json:"is_public"`
}

type CollectionUpdateRequest struct {
	CollectionName *string `json:"collection_name"`
	Description    *string `json:"description"`
	Thumbnail      *string `json:"thumbnail"`
	IsPublic       *bool   `json:"is_public"`
}

type CollectionPlaceRequest struct {
	CollectionID uint `json:"collection_id" binding:"required"`
	PlaceID      uint `json:"place_id" binding:"required"`
}
