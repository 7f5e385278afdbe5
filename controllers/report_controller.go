package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type ReportService interface {
	ReportPlace(ctx context.Context, placeID uint, req types.ReportRequest) (*models.PlaceReport, error)
	ReportPost(ctx context.Context, postID uint, req types.ReportRequest) (*models.PostReport, error)
}

type ReportController struct {
	Reports ReportService
}

func NewReportController(reports ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

func (rc *ReportController) ReportPlace(c *gin.Context) {
	id, req, ok := rc.bind(c)
	if !ok {
		return
	}
	report, err := rc.Reports.ReportPlace(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

func (rc *ReportController) ReportPost(c *gin.Context) {
	id, req, ok := rc.bind(c)
	if !ok {
		return
	}
	report, err := rc.Reports.ReportPost(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// bind reads the subject id and body. Reports are filed as the caller.
func (rc *ReportController) bind(c *gin.Context) (uint, types.ReportRequest, bool) {
	var req types.ReportRequest
	id, ok := idParam(c, "id")
	if !ok {
		return 0, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return 0, req, false
	}
	req.UserID = defaultUser(c, req.UserID)
	if !requireSelf(c, req.UserID) {
		return 0, req, false
	}
	return id, req, true
}
