package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"gorm.io/gorm"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) ReportPlace(ctx context.Context, placeID uint, req types.ReportRequest) (*models.PlaceReport, error) {
	if err := validateReport(req); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, &models.Place{}, placeID, "place"); err != nil {
		return nil, err
	}

	report := &models.PlaceReport{
		PlaceID:  placeID,
		UserID:   req.UserID,
		Category: strings.TrimSpace(req.Category),
		Reason:   strings.TrimSpace(req.Reason),
		Status:   models.ReportPending,
	}
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("insert place report: %w", err)
	}
	return report, nil
}

func (s *ReportService) ReportPost(ctx context.Context, postID uint, req types.ReportRequest) (*models.PostReport, error) {
	if err := validateReport(req); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, &models.Post{}, postID, "post"); err != nil {
		return nil, err
	}

	report := &models.PostReport{
		PostID:   postID,
		UserID:   req.UserID,
		Category: strings.TrimSpace(req.Category),
		Reason:   strings.TrimSpace(req.Reason),
		Status:   models.ReportPending,
	}
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("insert post report: %w", err)
	}
	return report, nil
}

func (s *ReportService) exists(ctx context.Context, model interface{}, id uint, what string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s %d: %w", what, id, err)
	}
	if count == 0 {
		return notFound(what)
	}
	return nil
}

func validateReport(req types.ReportRequest) error {
	switch {
	case req.UserID == 0:
		return invalid("user_id", "user_id is required")
	case blank(req.Category):
		return invalid("category", "category is required")
	case blank(req.Reason):
		return invalid("reason", "reason is required")
	}
	return nil
}

// loadReport reads a report row into dest. Shared by the moderation paths.
func loadReport(tx *gorm.DB, dest interface{}, id uint) error {
	err := tx.Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("report")
	}
	if err != nil {
		return fmt.Errorf("load report %d: %w", id, err)
	}
	return nil
}
