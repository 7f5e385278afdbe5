package models

import (
	"time"

	"github.com/lib/pq"
)

type Course struct {
	ID                uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	CourseName        string         `gorm:"not null" json:"course_name"`
	CourseDescription string         `gorm:"type:text" json:"course_description"`
	Hashtags          pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	SelectedDate      *time.Time     `gorm:"type:date" json:"selected_date"`
	WithWho           pq.StringArray `gorm:"type:text[]" json:"with_who"`
	Purpose           pq.StringArray `gorm:"type:text[]" json:"purpose"`
	CreatedAt         time.Time      `json:"created_at"`

	// Schedules are loaded with a separate course_id IN (...) query.
	Schedules []CourseSchedule `gorm:"-" json:"schedules"`
}

// CourseSchedule is one stop of a course. The place fields are a snapshot
// taken when the course was saved.
type CourseSchedule struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID      uint   `gorm:"not null;uniqueIndex:idx_course_schedule_order" json:"courseId"`
	ScheduleOrder int    `gorm:"not null;uniqueIndex:idx_course_schedule_order" json:"scheduleOrder"`
	PlaceID       uint   `gorm:"not null" json:"placeId"`
	PlaceName     string `json:"placeName"`
	PlaceAddress  string `json:"placeAddress"`
	PlaceImage    string `json:"placeImage"`
}
