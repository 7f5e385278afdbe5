package types

import "encoding/json"

type PlaceRequest struct {
	PlaceName      string          `json:"place_name" binding:"required"`
	Description    string          `json:"description"`
	Address        string          `json:"address" binding:"required"`
	Phone          string          `json:"phone"`
	MainCategory   string          `json:"main_category"`
	SubCategory    string          `json:"sub_category"`
	Hashtags       []string        `json:"hashtags"`
	Images         []string        `json:"images"`
	OperatingHours json.RawMessage `json:"operating_hours"`
	PriceInfo      json.RawMessage `json:"price_info"`
	WithWho        []string        `json:"with_who"`
	Purpose        []string        `json:"purpose"`
	Mood           []string        `json:"mood"`
}

// PlaceUpdateRequest changes only the fields that are present.
type PlaceUpdateRequest struct {
	PlaceName      *string         `json:"place_name"`
	Description    *string         `json:"description"`
	Address        *string         `json:"address"`
	Phone          *string         `json:"phone"`
	MainCategory   *string         `json:"main_category"`
	SubCategory    *string         `json:"sub_category"`
	Hashtags       []string        `json:"hashtags"`
	Images         []string        `json:"images"`
	OperatingHours json.RawMessage `json:"operating_hours"`
	PriceInfo      json.RawMessage `json:"price_info"`
	WithWho        []string        `json:"with_who"`
	Purpose        []string        `json:"purpose"`
	Mood           []string        `json:"mood"`
}

type PlaceFilter struct {
	MainCategory string `form:"main_category"`
	SubCategory  string `form:"sub_category"`
	City         string `form:"city"`
	District     string `form:"district"`
	Neighborhood string `form:"neighborhood"`
}
