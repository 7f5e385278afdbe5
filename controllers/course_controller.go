package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/types"
	"github.com/date-course/api-go/utils"
	"github.com/gin-gonic/gin"
)

type CourseService interface {
	Create(ctx context.Context, actor services.Actor, req types.CourseRequest) (uint, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Course, error)
	List(ctx context.Context, f types.CourseFilter) ([]models.Course, error)
	Get(ctx context.Context, id uint) (*models.Course, error)
	ReplaceSchedules(ctx context.Context, actor services.Actor, id uint, items []types.ScheduleItem) ([]models.CourseSchedule, error)
	Delete(ctx context.Context, actor services.Actor, id uint) error
}

type CourseController struct {
	Courses CourseService
}

func NewCourseController(courses CourseService) *CourseController {
	return &CourseController{Courses: courses}
}

// CreateCourse godoc
// @Summary Create a course with its ordered schedules
// @Tags course
// @Router /course/courses [post]
func (cc *CourseController) CreateCourse(c *gin.Context) {
	var req types.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.UserID = defaultUser(c, req.UserID)

	id, err := cc.Courses.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Course created", "course_id": id})
}

func (cc *CourseController) GetUserCourses(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	courses, err := cc.Courses.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GetAllCourses godoc
// @Summary List courses filtered by place name and tags
// @Param place query string false "Place name fragment"
// @Param with_who query []string false "Companion tags, any match"
// @Param purpose query []string false "Purpose tags, any match"
// @Router /course/allcourse [get]
func (cc *CourseController) GetAllCourses(c *gin.Context) {
	filter := types.CourseFilter{
		Place:   c.Query("place"),
		WithWho: utils.QueryList(c, "with_who"),
		Purpose: utils.QueryList(c, "purpose"),
	}
	courses, err := cc.Courses.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (cc *CourseController) GetCourse(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	course, err := cc.Courses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (cc *CourseController) ReplaceSchedules(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.ScheduleReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	schedules, err := cc.Courses.ReplaceSchedules(c.Request.Context(), actorFrom(c), id, req.Schedules)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course_id": id, "schedules": schedules})
}

func (cc *CourseController) DeleteCourse(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := cc.Courses.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
