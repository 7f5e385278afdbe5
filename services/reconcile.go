package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pendingRewardBatch = 500

// Reconciler settles favorites whose reward step failed and repairs cached
// balances that drifted from the ledger.
type Reconciler struct {
	db          *gorm.DB
	collections *CollectionService
	metrics     *metrics.Metrics
}

func NewReconciler(db *gorm.DB, collections *CollectionService, m *metrics.Metrics) *Reconciler {
	return &Reconciler{db: db, collections: collections, metrics: m}
}

type pendingFavorite struct {
	ID          uint
	PlaceID     uint
	FavoriterID uint
}

// RetryPendingRewards re-runs the reward step for favorites still pending
// after olderThan. It returns how many were settled.
func (r *Reconciler) RetryPendingRewards(ctx context.Context, olderThan time.Duration) (int, error) {
	var pending []pendingFavorite
	if err := r.db.WithContext(ctx).Raw(`
		SELECT cp.id, cp.place_id, c.user_id AS favoriter_id
		FROM collection_places cp
		JOIN collections c ON c.id = cp.collection_id
		WHERE cp.reward_status = ? AND cp.created_at < ?
		ORDER BY cp.id
		LIMIT ?`, models.RewardPending, time.Now().Add(-olderThan), pendingRewardBatch).
		Scan(&pending).Error; err != nil {
		return 0, fmt.Errorf("list pending rewards: %w", err)
	}

	settled := 0
	for _, fav := range pending {
		if err := ctx.Err(); err != nil {
			return settled, err
		}
		status, err := r.collections.grantFavoriteReward(ctx, fav.ID, fav.FavoriterID, fav.PlaceID)
		if err != nil {
			log.WithFields(log.Fields{
				"component":   "reconciler",
				"favorite_id": fav.ID,
				"place_id":    fav.PlaceID,
			}).WithError(err).Warn("favorite reward retry failed")
			r.metrics.RewardRetried("failed")
			continue
		}
		if status != "" {
			settled++
			r.metrics.RewardRetried(status)
		}
	}
	return settled, nil
}

type balanceDrift struct {
	UserID    uint
	Cached    int
	LedgerSum int
}

// RepairBalances resets every cached balance that differs from the sum of
// the user's ledger entries. It returns how many users were repaired.
func (r *Reconciler) RepairBalances(ctx context.Context) (int, error) {
	var drifts []balanceDrift
	if err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.points AS cached, COALESCE(SUM(h.points), 0) AS ledger_sum
		FROM users u
		LEFT JOIN point_history h ON h.user_id = u.id
		GROUP BY u.id, u.points
		HAVING u.points <> COALESCE(SUM(h.points), 0)`).
		Scan(&drifts).Error; err != nil {
		return 0, fmt.Errorf("scan balance drift: %w", err)
	}

	repaired := 0
	for _, d := range drifts {
		fields := log.Fields{
			"component":  "reconciler",
			"user_id":    d.UserID,
			"cached":     d.Cached,
			"ledger_sum": d.LedgerSum,
		}
		if err := r.repairBalance(ctx, d.UserID); err != nil {
			log.WithFields(fields).WithError(err).Error("balance repair failed")
			continue
		}
		log.WithFields(fields).Warn("cached balance drifted from ledger, repaired")
		r.metrics.BalanceRepaired()
		repaired++
	}
	return repaired, nil
}

// repairBalance recomputes the sum after taking the row lock, so ledger
// writes that raced with the drift scan are included.
func (r *Reconciler) repairBalance(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", userID).
			First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock user %d: %w", userID, err)
		}
		return tx.Exec(`
			UPDATE users
			SET points = (SELECT COALESCE(SUM(points), 0) FROM point_history WHERE user_id = ?),
			    updated_at = NOW()
			WHERE id = ?`, userID, userID).Error
	})
}
