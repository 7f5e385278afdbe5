package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopService struct {
	db     *gorm.DB
	ledger *Ledger
}

func NewShopService(db *gorm.DB, ledger *Ledger) *ShopService {
	return &ShopService{db: db, ledger: ledger}
}

func (s *ShopService) ListItems(ctx context.Context, category string) ([]models.ShopItem, error) {
	q := s.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	items := []models.ShopItem{}
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list shop items: %w", err)
	}
	return items, nil
}

func (s *ShopService) GetItem(ctx context.Context, id uint) (*models.ShopItem, error) {
	return getItem(s.db.WithContext(ctx), id)
}

func getItem(db *gorm.DB, id uint) (*models.ShopItem, error) {
	var item models.ShopItem
	err := db.Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("item")
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

func validateItem(req types.ShopItemRequest) error {
	if blank(req.Category) || blank(req.Name) {
		return invalid("name", "category and name are required")
	}
	if req.PricePoints <= 0 {
		return invalid("price_points", "price_points must be positive")
	}
	return nil
}

func (s *ShopService) CreateItem(ctx context.Context, req types.ShopItemRequest) (*models.ShopItem, error) {
	if err := validateItem(req); err != nil {
		return nil, err
	}
	item := &models.ShopItem{
		Category:    strings.TrimSpace(req.Category),
		Name:        strings.TrimSpace(req.Name),
		ImageURL:    req.ImageURL,
		PricePoints: req.PricePoints,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// UpdateItem replaces every editable field of an item. Past purchases keep
// pointing at it; their ledger entries keep the old name.
func (s *ShopService) UpdateItem(ctx context.Context, id uint, req types.ShopItemRequest) (*models.ShopItem, error) {
	if err := validateItem(req); err != nil {
		return nil, err
	}
	var item *models.ShopItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ShopItem{}).Where("id = ?", id).Updates(map[string]interface{}{
			"category":     strings.TrimSpace(req.Category),
			"name":         strings.TrimSpace(req.Name),
			"image_url":    req.ImageURL,
			"price_points": req.PricePoints,
		})
		if res.Error != nil {
			return fmt.Errorf("update item %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("item")
		}
		var err error
		item, err = getItem(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem refuses items that already have purchases.
func (s *ShopService) DeleteItem(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShopItem{})
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return fmt.Errorf("item has purchases: %w", ErrConflict)
		}
		return fmt.Errorf("delete item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("item")
	}
	return nil
}

// Purchase debits the item price and records the purchase atomically. The
// balance is checked under the user row lock, so concurrent purchases cannot
// overdraw it.
func (s *ShopService) Purchase(ctx context.Context, actor Actor, userID, itemID uint) (*models.ShopPurchase, error) {
	if userID == 0 || itemID == 0 {
		return nil, invalid("body", "user_id and item_id are required")
	}
	if !actor.owns(userID) {
		return nil, ErrForbidden
	}

	var purchase *models.ShopPurchase
	var entry *models.PointHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := getItem(tx, itemID)
		if err != nil {
			return err
		}
		entry, err = s.ledger.apply(tx, userID, fmt.Sprintf("%s: %s", types.PurchaseAction, item.Name), -item.PricePoints)
		if err != nil {
			return err
		}
		purchase = &models.ShopPurchase{
			UserID:  userID,
			ItemID:  item.ID,
			Barcode: newBarcode(),
		}
		if err := tx.Create(purchase).Error; err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ledger.observe(entry)
	return purchase, nil
}

func (s *ShopService) Purchases(ctx context.Context, userID uint) ([]models.ShopPurchase, error) {
	purchases := []models.ShopPurchase{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at DESC, id DESC").
		Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

func newBarcode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
