package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const selectedDateLayout = "2006-01-02"

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// Create saves the header and its schedules in one transaction and returns
// the new course id.
func (s *CourseService) Create(ctx context.Context, actor Actor, req types.CourseRequest) (uint, error) {
	course, err := buildCourse(req)
	if err != nil {
		return 0, err
	}
	if !actor.owns(course.UserID) {
		return 0, ErrForbidden
	}
	schedules, err := buildSchedules(0, req.Schedules)
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			if isForeignKeyViolation(err) {
				return notFound("user")
			}
			return fmt.Errorf("insert course: %w", err)
		}
		for i := range schedules {
			schedules[i].CourseID = course.ID
		}
		if err := tx.Create(&schedules).Error; err != nil {
			return fmt.Errorf("insert schedules of course %d: %w", course.ID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return course.ID, nil
}

// ListByUser returns the user's courses, newest first, with schedules in
// visiting order.
func (s *CourseService) ListByUser(ctx context.Context, userID uint) ([]models.Course, error) {
	courses := []models.Course{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses of user %d: %w", userID, err)
	}
	if err := s.attachSchedules(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// List returns all courses matching the filter. Tag filters match when the
// stored array overlaps the requested one. The place filter then keeps
// courses with a stop whose name contains the text, ignoring case.
func (s *CourseService) List(ctx context.Context, f types.CourseFilter) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Model(&models.Course{})
	if len(f.WithWho) > 0 {
		q = q.Where("with_who && ?::text[]", pq.StringArray(f.WithWho))
	}
	if len(f.Purpose) > 0 {
		q = q.Where("purpose && ?::text[]", pq.StringArray(f.Purpose))
	}

	courses := []models.Course{}
	if err := q.Order("created_at DESC, id DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if place := strings.TrimSpace(f.Place); place != "" && len(courses) > 0 {
		var matched []uint
		if err := s.db.WithContext(ctx).
			Model(&models.CourseSchedule{}).
			Distinct("course_id").
			Where("course_id IN ?", courseIDs(courses)).
			Where("place_name ILIKE ?", containsPattern(place)).
			Pluck("course_id", &matched).Error; err != nil {
			return nil, fmt.Errorf("filter courses by place: %w", err)
		}
		courses = keepCourses(courses, matched)
	}

	if err := s.attachSchedules(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("course")
	}
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}

	courses := []models.Course{course}
	if err := s.attachSchedules(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// ReplaceSchedules swaps the whole stop list. Order values restart at 1.
func (s *CourseService) ReplaceSchedules(ctx context.Context, actor Actor, id uint, items []types.ScheduleItem) ([]models.CourseSchedule, error) {
	schedules, err := buildSchedules(id, items)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedCourse(tx, actor, id); err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseSchedule{}).Error; err != nil {
			return fmt.Errorf("clear schedules of course %d: %w", id, err)
		}
		if err := tx.Create(&schedules).Error; err != nil {
			return fmt.Errorf("insert schedules of course %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// Delete removes the course and its schedules together.
func (s *CourseService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedCourse(tx, actor, id); err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseSchedule{}).Error; err != nil {
			return fmt.Errorf("delete schedules of course %d: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Course{})
		if res.Error != nil {
			return fmt.Errorf("delete course %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("course")
		}
		return nil
	})
}

func loadOwnedCourse(tx *gorm.DB, actor Actor, id uint) error {
	var course models.Course
	err := tx.Select("id", "user_id").Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("course")
	}
	if err != nil {
		return fmt.Errorf("load course %d: %w", id, err)
	}
	if !actor.owns(course.UserID) {
		return ErrForbidden
	}
	return nil
}

func (s *CourseService) attachSchedules(ctx context.Context, courses []models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	var rows []models.CourseSchedule
	if err := s.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs(courses)).
		Order("course_id, schedule_order").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}

	grouped := groupSchedules(rows)
	for i := range courses {
		if list, ok := grouped[courses[i].ID]; ok {
			courses[i].Schedules = list
		} else {
			courses[i].Schedules = []models.CourseSchedule{}
		}
	}
	return nil
}

func buildCourse(req types.CourseRequest) (*models.Course, error) {
	if req.UserID == 0 {
		return nil, invalid("user_id", "user_id is required")
	}
	if blank(req.CourseName) {
		return nil, invalid("course_name", "course_name is required")
	}

	course := &models.Course{
		UserID:            req.UserID,
		CourseName:        strings.TrimSpace(req.CourseName),
		CourseDescription: req.CourseDescription,
		Hashtags:          pq.StringArray(req.Hashtags),
		WithWho:           pq.StringArray(req.WithWho),
		Purpose:           pq.StringArray(req.Purpose),
	}
	if req.SelectedDate != "" {
		day, err := time.Parse(selectedDateLayout, req.SelectedDate)
		if err != nil {
			return nil, invalid("selected_date", "selected_date must look like %s", selectedDateLayout)
		}
		course.SelectedDate = &day
	}
	return course, nil
}

// buildSchedules numbers the stops 1..n in input order.
func buildSchedules(courseID uint, items []types.ScheduleItem) ([]models.CourseSchedule, error) {
	if len(items) == 0 {
		return nil, invalid("schedules", "at least one schedule is required")
	}

	schedules := make([]models.CourseSchedule, 0, len(items))
	for i, item := range items {
		if item.PlaceID == 0 {
			return nil, invalid("schedules", "schedule %d has no placeId", i+1)
		}
		schedules = append(schedules, models.CourseSchedule{
			CourseID:      courseID,
			ScheduleOrder: i + 1,
			PlaceID:       item.PlaceID,
			PlaceName:     item.PlaceName,
			PlaceAddress:  item.PlaceAddress,
			PlaceImage:    item.PlaceImage,
		})
	}
	return schedules, nil
}

// groupSchedules buckets rows by course id. Rows must arrive ordered by
// schedule_order within each course.
func groupSchedules(rows []models.CourseSchedule) map[uint][]models.CourseSchedule {
	grouped := make(map[uint][]models.CourseSchedule)
	for _, row := range rows {
		grouped[row.CourseID] = append(grouped[row.CourseID], row)
	}
	return grouped
}

func courseIDs(courses []models.Course) []uint {
	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids
}

// keepCourses filters courses down to ids, preserving their order.
func keepCourses(courses []models.Course, ids []uint) []models.Course {
	keep := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := courses[:0]
	for _, c := range courses {
		if _, ok := keep[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
