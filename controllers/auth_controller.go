package controllers

import (
	"context"
	"net/http"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Register(ctx context.Context, req types.SignupRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Profile(ctx context.Context, id uint) (*models.User, error)
}

type AuthController struct {
	Accounts AccountService
}

func NewAuthController(accounts AccountService) *AuthController {
	return &AuthController{Accounts: accounts}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input types.SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "nickname, a valid email and a password of at least 6 characters are required")
		return
	}
	user, err := ac.Accounts.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input types.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	token, user, err := ac.Accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "user": user})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	user, err := ac.Accounts.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
