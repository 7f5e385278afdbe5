package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CollectionService struct {
	db      *gorm.DB
	ledger  *Ledger
	metrics *metrics.Metrics
}

func NewCollectionService(db *gorm.DB, ledger *Ledger, m *metrics.Metrics) *CollectionService {
	return &CollectionService{db: db, ledger: ledger, metrics: m}
}

func (s *CollectionService) Create(ctx context.Context, actor Actor, req types.CollectionRequest) (*models.Collection, error) {
	if req.UserID == 0 {
		return nil, invalid("user_id", "user_id is required")
	}
	if blank(req.CollectionName) {
		return nil, invalid("collection_name", "collection_name is required")
	}
	if isDefaultCollectionName(req.CollectionName) {
		return nil, invalid("collection_name", "%q is reserved", types.DEFAULT_COLLECTION_NAME)
	}
	if !actor.owns(req.UserID) {
		return nil, ErrForbidden
	}

	col := &models.Collection{
		UserID:         req.UserID,
		CollectionName: strings.TrimSpace(req.CollectionName),
		Description:    req.Description,
		Thumbnail:      req.Thumbnail,
		IsPublic:       req.IsPublic,
	}
	if err := s.db.WithContext(ctx).Create(col).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("insert collection: %w", err)
	}
	return col, nil
}

// ListByUser puts the default collection first, then the rest newest first.
func (s *CollectionService) ListByUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	cols := []models.Collection{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&cols).Error; err != nil {
		return nil, fmt.Errorf("list collections of user %d: %w", userID, err)
	}
	sortDefaultFirst(cols)
	return cols, nil
}

func (s *CollectionService) ListPublic(ctx context.Context) ([]models.Collection, error) {
	cols := []models.Collection{}
	if err := s.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC, id DESC").
		Find(&cols).Error; err != nil {
		return nil, fmt.Errorf("list public collections: %w", err)
	}
	return cols, nil
}

func (s *CollectionService) Update(ctx context.Context, actor Actor, id uint, req types.CollectionUpdateRequest) (*models.Collection, error) {
	col, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.CollectionName != nil {
		name := strings.TrimSpace(*req.CollectionName)
		if name == "" {
			return nil, invalid("collection_name", "collection_name must not be empty")
		}
		if isDefaultCollectionName(col.CollectionName) != isDefaultCollectionName(name) {
			return nil, invalid("collection_name", "the default collection keeps its name")
		}
		changes["collection_name"] = name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Thumbnail != nil {
		changes["thumbnail"] = *req.Thumbnail
	}
	if req.IsPublic != nil {
		changes["is_public"] = *req.IsPublic
	}
	if len(changes) == 0 {
		return nil, invalid("body", "no fields to update")
	}

	if err := s.db.WithContext(ctx).Model(col).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, err)
	}
	return col, nil
}

// Delete removes a collection and, through the foreign key, its favorites.
// The default collection cannot be deleted.
func (s *CollectionService) Delete(ctx context.Context, actor Actor, id uint) error {
	col, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if isDefaultCollectionName(col.CollectionName) {
		return fmt.Errorf("default collection cannot be deleted: %w", ErrConflict)
	}

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Collection{})
	if res.Error != nil {
		return fmt.Errorf("delete collection %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("collection")
	}
	return nil
}

// AddPlace favorites a place. The favorite is committed first; crediting
// the place owner follows as a separate step whose failure leaves the
// favorite pending for the reconciler.
func (s *CollectionService) AddPlace(ctx context.Context, actor Actor, collectionID, placeID uint) (*models.CollectionPlace, error) {
	if collectionID == 0 || placeID == 0 {
		return nil, invalid("body", "collection_id and place_id are required")
	}
	col, err := s.owned(ctx, actor, collectionID)
	if err != nil {
		return nil, err
	}

	link := &models.CollectionPlace{
		CollectionID: collectionID,
		PlaceID:      placeID,
		RewardStatus: models.RewardPending,
	}
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, fmt.Errorf("place already in collection: %w", ErrConflict)
		case isForeignKeyViolation(err):
			return nil, notFound("place")
		}
		return nil, fmt.Errorf("insert collection place: %w", err)
	}

	status, err := s.grantFavoriteReward(ctx, link.ID, col.UserID, placeID)
	if err != nil {
		log.WithFields(log.Fields{
			"component":     "collection",
			"collection_id": collectionID,
			"place_id":      placeID,
			"favorite_id":   link.ID,
		}).WithError(err).Warn("favorite reward deferred to reconciler")
		s.metrics.SideEffectFailed("favorite_reward")
		return link, nil
	}
	if status != "" {
		link.RewardStatus = status
	}
	return link, nil
}

// grantFavoriteReward settles the reward of a pending favorite. The place
// owner gets FAVORITE_REWARD_POINTS unless there is no owner or the owner
// favorited their own place. The status flip is guarded on 'pending', so a
// repeated call never credits twice. It returns the resulting status, or ""
// when the favorite was already settled.
func (s *CollectionService) grantFavoriteReward(ctx context.Context, favoriteID, favoriterID, placeID uint) (string, error) {
	var place models.Place
	err := s.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", placeID).First(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.settleWithoutReward(ctx, favoriteID)
	}
	if err != nil {
		return "", fmt.Errorf("load owner of place %d: %w", placeID, err)
	}
	if place.UserID == nil || *place.UserID == favoriterID {
		return s.settleWithoutReward(ctx, favoriteID)
	}

	var entry *models.PointHistory
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CollectionPlace{}).
			Where("id = ? AND reward_status = ?", favoriteID, models.RewardPending).
			Update("reward_status", models.RewardGranted)
		if res.Error != nil {
			return fmt.Errorf("mark favorite %d granted: %w", favoriteID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var err error
		entry, err = s.ledger.apply(tx, *place.UserID, types.FavoriteRewardAction, types.FAVORITE_REWARD_POINTS)
		return err
	})
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", nil
	}
	s.ledger.observe(entry)
	return models.RewardGranted, nil
}

func (s *CollectionService) settleWithoutReward(ctx context.Context, favoriteID uint) (string, error) {
	res := s.db.WithContext(ctx).
		Model(&models.CollectionPlace{}).
		Where("id = ? AND reward_status = ?", favoriteID, models.RewardPending).
		Update("reward_status", models.RewardSkipped)
	if res.Error != nil {
		return "", fmt.Errorf("mark favorite %d skipped: %w", favoriteID, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", nil
	}
	return models.RewardSkipped, nil
}

// ListPlaces returns the places of a collection in the order they were
// added. Private collections are visible to their owner and admins only.
func (s *CollectionService) ListPlaces(ctx context.Context, actor Actor, collectionID uint) ([]models.Place, error) {
	col, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !col.IsPublic && !actor.owns(col.UserID) {
		return nil, ErrForbidden
	}

	places := []models.Place{}
	if err := s.db.WithContext(ctx).
		Table("collection_places cp").
		Select("p.*").
		Joins("JOIN places p ON p.id = cp.place_id").
		Where("cp.collection_id = ?", collectionID).
		Order("cp.id").
		Scan(&places).Error; err != nil {
		return nil, fmt.Errorf("list places of collection %d: %w", collectionID, err)
	}
	return places, nil
}

// RemovePlace deletes a favorite. Points already granted stay with the
// place owner.
func (s *CollectionService) RemovePlace(ctx context.Context, actor Actor, collectionID, placeID uint) error {
	if _, err := s.owned(ctx, actor, collectionID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("collection_id = ? AND place_id = ?", collectionID, placeID).
		Delete(&models.CollectionPlace{})
	if res.Error != nil {
		return fmt.Errorf("remove place %d from collection %d: %w", placeID, collectionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("collection place")
	}
	return nil
}

func (s *CollectionService) load(ctx context.Context, id uint) (*models.Collection, error) {
	var col models.Collection
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("collection")
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %d: %w", id, err)
	}
	return &col, nil
}

func (s *CollectionService) owned(ctx context.Context, actor Actor, id uint) (*models.Collection, error) {
	col, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(col.UserID) {
		return nil, ErrForbidden
	}
	return col, nil
}

func isDefaultCollectionName(name string) bool {
	return strings.TrimSpace(name) == types.DEFAULT_COLLECTION_NAME
}

// sortDefaultFirst moves the default collection to the front and keeps the
// relative order of the rest.
func sortDefaultFirst(cols []models.Collection) {
	sort.SliceStable(cols, func(i, j int) bool {
		return isDefaultCollectionName(cols[i].CollectionName) && !isDefaultCollectionName(cols[j].CollectionName)
	})
}
