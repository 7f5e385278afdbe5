package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type PointsLedger interface {
	History(ctx context.Context, userID uint) ([]models.PointHistory, error)
	Balance(ctx context.Context, userID uint) (int, error)
}

type PointsController struct {
	Ledger PointsLedger
}

func NewPointsController(ledger PointsLedger) *PointsController {
	return &PointsController{Ledger: ledger}
}

func (pc *PointsController) GetHistory(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok || !requireSelf(c, userID) {
		return
	}
	history, err := pc.Ledger.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (pc *PointsController) GetBalance(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok || !requireSelf(c, userID) {
		return
	}
	points, err := pc.Ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "points": points})
}

func (pc *PointsController) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rules": types.GetPointsConfig()})
}
