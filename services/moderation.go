package services

import (
	"context"
	"fmt"

	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ModerationService moves places and reports through their review states.
type ModerationService struct {
	db       *gorm.DB
	ledger   *Ledger
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewModerationService(db *gorm.DB, ledger *Ledger, notifier Notifier, m *metrics.Metrics) *ModerationService {
	return &ModerationService{db: db, ledger: ledger, notifier: notifier, metrics: m}
}

func (s *ModerationService) PendingPlaces(ctx context.Context) ([]models.Place, error) {
	places := []models.Place{}
	if err := s.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at DESC").
		Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list pending places: %w", err)
	}
	return places, nil
}

// ApprovePlace flips a pending place to approved and credits the submitter
// PLACE_APPROVAL_REWARD_POINTS in the same transaction.
func (s *ModerationService) ApprovePlace(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	var entry *models.PointHistory

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Place{}).
			Where("id = ? AND is_approved = ?", id, false).
			Update("is_approved", true)
		if res.Error != nil {
			return fmt.Errorf("approve place %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Place{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("check place %d: %w", id, err)
			}
			if count == 0 {
				return notFound("place")
			}
			return fmt.Errorf("place already approved: %w", ErrConflict)
		}

		if err := tx.Where("id = ?", id).First(&place).Error; err != nil {
			return fmt.Errorf("reload place %d: %w", id, err)
		}
		if place.UserID == nil {
			return nil
		}
		var err error
		entry, err = s.ledger.apply(tx, *place.UserID, types.PlaceApprovalRewardAction, types.PLACE_APPROVAL_REWARD_POINTS)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.ledger.observe(entry)
	return &place, nil
}

// RejectPlace deletes a pending place outright.
func (s *ModerationService) RejectPlace(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND is_approved = ?", id, false).
		Delete(&models.Place{})
	if res.Error != nil {
		return fmt.Errorf("reject place %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("pending place")
	}
	return nil
}

func (s *ModerationService) ListPlaceReports(ctx context.Context) ([]models.PlaceReportDetail, error) {
	reports := []models.PlaceReportDetail{}
	if err := s.db.WithContext(ctx).
		Table("place_reports AS pr").
		Select("pr.*, u.nickname AS reporter_nickname, p.place_name").
		Joins("LEFT JOIN users u ON u.id = pr.user_id").
		Joins("LEFT JOIN places p ON p.id = pr.place_id").
		Order("pr.created_at DESC, pr.id DESC").
		Scan(&reports).Error; err != nil {
		return nil, fmt.Errorf("list place reports: %w", err)
	}
	return reports, nil
}

func (s *ModerationService) ListPostReports(ctx context.Context) ([]models.PostReport, error) {
	reports := []models.PostReport{}
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.ReportPending).
		Order("created_at DESC, id DESC").
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list post reports: %w", err)
	}
	return reports, nil
}

// ResolvePlaceReport marks the report resolved and optionally deletes the
// place. Both happen in one transaction; if the delete fails the report
// stays pending. The reporter notice is sent after commit and its failure
// only gets logged.
func (s *ModerationService) ResolvePlaceReport(ctx context.Context, reportID uint, res types.Resolution) (*models.PlaceReport, error) {
	var report models.PlaceReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadReport(tx, &report, reportID); err != nil {
			return err
		}
		if err := tx.Model(&report).Update("status", models.ReportResolved).Error; err != nil {
			return fmt.Errorf("resolve place report %d: %w", reportID, err)
		}
		if res.DeleteSubject {
			if err := tx.Where("id = ?", report.PlaceID).Delete(&models.Place{}).Error; err != nil {
				return fmt.Errorf("delete reported place %d: %w", report.PlaceID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyReporter(ctx, "place_report", reportID, report.UserID, res)
	return &report, nil
}

func (s *ModerationService) ResolvePostReport(ctx context.Context, reportID uint, res types.Resolution) (*models.PostReport, error) {
	var report models.PostReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadReport(tx, &report, reportID); err != nil {
			return err
		}
		if err := tx.Model(&report).Update("status", models.ReportResolved).Error; err != nil {
			return fmt.Errorf("resolve post report %d: %w", reportID, err)
		}
		if res.DeleteSubject {
			if err := tx.Where("id = ?", report.PostID).Delete(&models.Post{}).Error; err != nil {
				return fmt.Errorf("delete reported post %d: %w", report.PostID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyReporter(ctx, "post_report", reportID, report.UserID, res)
	return &report, nil
}

func (s *ModerationService) notifyReporter(ctx context.Context, kind string, reportID, reporterID uint, res types.Resolution) {
	if res.AdminID == 0 || blank(res.Message) || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, res.AdminID, reporterID, res.Message); err != nil {
		log.WithFields(log.Fields{
			"component":   "moderation",
			"report_kind": kind,
			"report_id":   reportID,
			"reporter_id": reporterID,
		}).WithError(err).Warn("report notification failed")
		s.metrics.SideEffectFailed("report_notification")
	}
}
