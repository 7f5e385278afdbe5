package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger owns users.points. Every balance change is paired with a
// point_history row in the same transaction, so the cached balance always
// equals the sum of the user's entries.
type Ledger struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewLedger(db *gorm.DB, m *metrics.Metrics) *Ledger {
	return &Ledger{db: db, metrics: m}
}

// Record applies delta to the user's balance in its own transaction.
func (l *Ledger) Record(ctx context.Context, userID uint, action string, delta int) (*models.PointHistory, error) {
	if userID == 0 {
		return nil, invalid("user_id", "user_id is required")
	}
	if blank(action) {
		return nil, invalid("action", "action is required")
	}
	if delta == 0 {
		return nil, invalid("points", "points must not be zero")
	}

	var entry *models.PointHistory
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = l.apply(tx, userID, action, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.observe(entry)
	return entry, nil
}

// apply runs on a caller-owned transaction. The user row stays locked until
// that transaction ends, which serializes concurrent balance changes.
func (l *Ledger) apply(tx *gorm.DB, userID uint, action string, delta int) (*models.PointHistory, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "points").
		Where("id = ?", userID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("lock balance of user %d: %w", userID, err)
	}

	if user.Points+delta < 0 {
		return nil, ErrInsufficientPoints
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", delta)).Error; err != nil {
		return nil, fmt.Errorf("update balance of user %d: %w", userID, err)
	}

	entry := &models.PointHistory{UserID: userID, Action: action, Points: delta}
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("append ledger entry for user %d: %w", userID, err)
	}
	return entry, nil
}

// observe is called once the entry's transaction has committed.
func (l *Ledger) observe(entry *models.PointHistory) {
	if entry == nil {
		return
	}
	l.metrics.LedgerEntry(actionLabel(entry.Action), entry.Points)
}

// actionLabel drops the per-item suffix ("아이템 구매: 커피") so the metric
// label set stays bounded.
func actionLabel(action string) string {
	if i := strings.Index(action, ":"); i > 0 {
		return action[:i]
	}
	return action
}

// History lists a user's entries, newest first.
func (l *Ledger) History(ctx context.Context, userID uint) ([]models.PointHistory, error) {
	entries := []models.PointHistory{}
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list point history: %w", err)
	}
	return entries, nil
}

func (l *Ledger) Balance(ctx context.Context, userID uint) (int, error) {
	var user models.User
	err := l.db.WithContext(ctx).Select("id", "points").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, notFound("user")
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return user.Points, nil
}
