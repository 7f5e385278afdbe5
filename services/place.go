package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlaceService struct {
	db *gorm.DB
}

func NewPlaceService(db *gorm.DB) *PlaceService {
	return &PlaceService{db: db}
}

// Create registers a place for the actor. Places submitted by an admin skip
// moderation.
func (s *PlaceService) Create(ctx context.Context, actor Actor, req types.PlaceRequest) (*models.Place, error) {
	if actor.UserID == 0 {
		return nil, invalid("user_id", "user_id is required")
	}
	if blank(req.PlaceName) {
		return nil, invalid("place_name", "place_name is required")
	}
	if blank(req.Address) {
		return nil, invalid("address", "address is required")
	}
	for field, raw := range map[string]json.RawMessage{"operating_hours": req.OperatingHours, "price_info": req.PriceInfo} {
		if len(raw) > 0 && !json.Valid(raw) {
			return nil, invalid(field, "%s must be valid JSON", field)
		}
	}

	owner := actor.UserID
	place := &models.Place{
		UserID:         &owner,
		PlaceName:      strings.TrimSpace(req.PlaceName),
		Description:    req.Description,
		Address:        strings.TrimSpace(req.Address),
		Phone:          req.Phone,
		MainCategory:   req.MainCategory,
		SubCategory:    req.SubCategory,
		Hashtags:       pq.StringArray(req.Hashtags),
		Images:         pq.StringArray(req.Images),
		OperatingHours: datatypes.JSON(req.OperatingHours),
		PriceInfo:      datatypes.JSON(req.PriceInfo),
		WithWho:        pq.StringArray(req.WithWho),
		Purpose:        pq.StringArray(req.Purpose),
		Mood:           pq.StringArray(req.Mood),
		IsApproved:     actor.IsAdmin,
	}
	if err := s.db.WithContext(ctx).Create(place).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("insert place: %w", err)
	}
	return place, nil
}

func (s *PlaceService) ListApproved(ctx context.Context) ([]models.Place, error) {
	places := []models.Place{}
	if err := s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

// Get returns an approved place. Pending places are reported as missing.
func (s *PlaceService) Get(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	err := s.db.WithContext(ctx).Where("id = ? AND is_approved = ?", id, true).First(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("place")
	}
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	return &place, nil
}

// GetAny ignores the approval flag. Used by moderation screens.
func (s *PlaceService) GetAny(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("place")
	}
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	return &place, nil
}

// Filter narrows approved places by category and address fragments.
func (s *PlaceService) Filter(ctx context.Context, f types.PlaceFilter) ([]models.Place, error) {
	q := s.db.WithContext(ctx).Where("is_approved = ?", true)
	if f.MainCategory != "" {
		q = q.Where("main_category = ?", f.MainCategory)
	}
	if f.SubCategory != "" {
		q = q.Where("sub_category = ?", f.SubCategory)
	}
	for _, part := range []string{f.City, f.District, f.Neighborhood} {
		if strings.TrimSpace(part) != "" {
			q = q.Where("address ILIKE ?", containsPattern(part))
		}
	}

	places := []models.Place{}
	if err := q.Order("created_at DESC").Find(&places).Error; err != nil {
		return nil, fmt.Errorf("filter places: %w", err)
	}
	return places, nil
}

// Update changes the provided fields. Only the submitter or an admin may
// edit a place.
func (s *PlaceService) Update(ctx context.Context, actor Actor, id uint, req types.PlaceUpdateRequest) (*models.Place, error) {
	changes, err := placeChanges(req)
	if err != nil {
		return nil, err
	}

	place, err := s.GetAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && (place.UserID == nil || *place.UserID != actor.UserID) {
		return nil, ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(place).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}
	return s.GetAny(ctx, id)
}

func placeChanges(req types.PlaceUpdateRequest) (map[string]interface{}, error) {
	changes := map[string]interface{}{}

	text := map[string]*string{
		"description":   req.Description,
		"phone":         req.Phone,
		"main_category": req.MainCategory,
		"sub_category":  req.SubCategory,
	}
	for column, v := range text {
		if v != nil {
			changes[column] = *v
		}
	}
	if req.PlaceName != nil {
		if blank(*req.PlaceName) {
			return nil, invalid("place_name", "place_name must not be empty")
		}
		changes["place_name"] = strings.TrimSpace(*req.PlaceName)
	}
	if req.Address != nil {
		if blank(*req.Address) {
			return nil, invalid("address", "address must not be empty")
		}
		changes["address"] = strings.TrimSpace(*req.Address)
	}

	arrays := map[string][]string{
		"hashtags": req.Hashtags,
		"images":   req.Images,
		"with_who": req.WithWho,
		"purpose":  req.Purpose,
		"mood":     req.Mood,
	}
	for column, v := range arrays {
		if v != nil {
			changes[column] = pq.StringArray(v)
		}
	}

	docs := map[string]json.RawMessage{
		"operating_hours": req.OperatingHours,
		"price_info":      req.PriceInfo,
	}
	for column, raw := range docs {
		if len(raw) == 0 {
			continue
		}
		if !json.Valid(raw) {
			return nil, invalid(column, "%s must be valid JSON", column)
		}
		changes[column] = datatypes.JSON(raw)
	}

	if len(changes) == 0 {
		return nil, invalid("body", "no fields to update")
	}
	return changes, nil
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s taken literally.
func containsPattern(s string) string {
	return "%" + escapeLike(strings.TrimSpace(s)) + "%"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
