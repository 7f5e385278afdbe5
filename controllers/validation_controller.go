package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AvailabilityChecker interface {
	NicknameAvailable(ctx context.Context, nickname string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

type ValidationController struct {
	Accounts AvailabilityChecker
}

func NewValidationController(accounts AvailabilityChecker) *ValidationController {
	return &ValidationController{Accounts: accounts}
}

func (vc *ValidationController) CheckNickname(c *gin.Context) {
	available, err := vc.Accounts.NicknameAvailable(c.Request.Context(), c.Query("nickname"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": !available, "available": available})
}

func (vc *ValidationController) CheckEmail(c *gin.Context) {
	available, err := vc.Accounts.EmailAvailable(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": !available, "available": available})
}
